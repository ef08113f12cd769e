package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"smileclinic/internal/db"
	"smileclinic/internal/entities"
	"smileclinic/internal/repository"
	"smileclinic/internal/slots"
)

const (
	paymentOnline = "online"
	paymentOnsite = "onsite"

	statusUnpaid    = "unpaid"
	statusSucceeded = "succeeded"
	statusRefunded  = "refunded"

	// Deposit collected through Stripe Checkout when booking online.
	onlineDepositPercent = 30

	cancelNotice = 24 * time.Hour
)

var (
	ErrClinicClosed     = errors.New("clinic is closed on the requested date")
	ErrSlotTaken        = errors.New("requested slot is no longer available")
	ErrPatientConflict  = errors.New("patient already has an appointment overlapping this time")
	ErrDentistBusy      = errors.New("requested dentist is not available for this slot")
	ErrTooLateToCancel  = errors.New("appointments can only be cancelled more than 24 hours before the start time")
	ErrAppointmentState = errors.New("appointment is not in a state that allows this change")
)

type AppointmentService struct {
	Repo       *repository.AppointmentRepository
	Patients   *repository.PatientRepository
	Treatments *repository.TreatmentRepository
	Dentists   *repository.DentistRepository
	Calendar   *repository.CalendarRepository

	stripeService *StripeService
	sender        *SenderService
}

func NewAppointmentService(
	repo *repository.AppointmentRepository,
	patients *repository.PatientRepository,
	treatments *repository.TreatmentRepository,
	dentists *repository.DentistRepository,
	calendar *repository.CalendarRepository,
	stripeService *StripeService,
	sender *SenderService,
) *AppointmentService {
	return &AppointmentService{
		Repo:          repo,
		Patients:      patients,
		Treatments:    treatments,
		Dentists:      dentists,
		Calendar:      calendar,
		stripeService: stripeService,
		sender:        sender,
	}
}

// DayAvailability renders the bookable grid for a date and treatment
// duration. When scheduleID is non-zero only that dentist's availability is
// considered.
func (s *AppointmentService) DayAvailability(dateStr string, treatmentID, scheduleID int) (*entities.DayAvailability, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	duration, _, err := s.treatmentDuration(treatmentID, date)
	if err != nil {
		return nil, err
	}
	grid, err := s.Calendar.GridFor(date)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Repo.BookingsForDate(date)
	if err != nil {
		return nil, err
	}
	dentists, err := s.roster(scheduleID)
	if err != nil {
		return nil, err
	}
	return computeDayAvailability(grid, bookings, dentists, date, duration, 0), nil
}

// computeDayAvailability is the pure assembly of the availability view; it
// takes already-fetched inputs so it can be exercised without a database.
func computeDayAvailability(grid slots.CapacityGrid, bookings []slots.BookingRecord, dentists []slots.DentistAvailability, date time.Time, durationMinutes, excludeID int) *entities.DayAvailability {
	day := &entities.DayAvailability{
		Date:            date.Format("2006-01-02"),
		Open:            len(grid.Starts) > 0,
		DurationMinutes: durationMinutes,
		AvailableStarts: []string{},
	}
	if !day.Open {
		return day
	}

	usage := slots.BuildGlobalUsage(grid, bookings, excludeID)
	block := grid.BlockMinutes
	if block <= 0 {
		block = slots.DefaultBlockMinutes
	}
	for _, start := range grid.Starts {
		begin, err := slots.ParseClock(start)
		if err != nil {
			continue
		}
		day.Blocks = append(day.Blocks, entities.BlockAvailability{
			Start:    start,
			End:      slots.Clock(begin + block),
			Booked:   usage[start],
			Capacity: grid.Capacity,
			Bookable: usage[start] < grid.Capacity,
		})
	}

	starts := slots.AvailableStarts(grid, durationMinutes, date, bookings, dentists, excludeID)
	if starts != nil {
		day.AvailableStarts = starts
	}
	return day
}

// Book validates and persists a new appointment, opening a Stripe Checkout
// session for the deposit when the patient pays online.
func (s *AppointmentService) Book(req *entities.AppointmentRequest) (*entities.BookingConfirmation, error) {
	patient, err := s.Patients.GetByID(req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %d not found", req.PatientID)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date.Before(today()) {
		return nil, errors.New("cannot book an appointment in the past")
	}

	duration, treatment, err := s.treatmentDuration(req.TreatmentID, date)
	if err != nil {
		return nil, err
	}

	candidate, scheduleID, err := s.place(date, req.StartTime, duration, req.ScheduleID, req.PatientID, 0)
	if err != nil {
		return nil, err
	}

	appointment := &db.Appointment{
		Code:          newBookingCode(),
		PatientID:     req.PatientID,
		TreatmentID:   req.TreatmentID,
		ScheduleID:    sql.NullInt64{Int64: int64(scheduleID), Valid: scheduleID != 0},
		Date:          date,
		TimeRange:     candidate.String(),
		Status:        slots.StatusPending,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: statusUnpaid,
	}

	confirmation := &entities.BookingConfirmation{Code: appointment.Code, Message: "Appointment requested."}
	if req.PaymentMethod == paymentOnline {
		deposit := int64(treatment.PriceCents) * onlineDepositPercent / 100
		description := fmt.Sprintf("SmileCare deposit - %s (%s)", treatment.Name, appointment.Code)
		sessionURL, sessionID, err := s.stripeService.CreateCheckoutSession(deposit, "usd", description, patient.Email)
		if err != nil {
			return nil, fmt.Errorf("could not create checkout session: %w", err)
		}
		appointment.StripeSessionID = sessionID
		confirmation.CheckoutURL = sessionURL
		confirmation.SessionID = sessionID
		confirmation.Message = "Appointment requested, complete the deposit payment to confirm."
	}

	if err := s.Repo.Create(appointment); err != nil {
		log.Errorf("error creating appointment: %v", err)
		return nil, err
	}

	if response, err := s.Repo.GetResponse(appointment.Code); err == nil && response != nil {
		s.sender.SendAppointmentEmail(*response, "requested")
		s.sender.SendAppointmentSMS(*response, "requested")
	}
	return confirmation, nil
}

func (s *AppointmentService) GetByCode(code, email string) (*entities.AppointmentResponse, error) {
	response, err := s.Repo.GetResponse(code)
	if err != nil {
		return nil, err
	}
	if response == nil || response.PatientEmail != email {
		return nil, fmt.Errorf("appointment %s not found", code)
	}
	return response, nil
}

func (s *AppointmentService) GetBySessionID(sessionID string) (*entities.AppointmentResponse, error) {
	appointment, err := s.Repo.GetByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, fmt.Errorf("no appointment for session %s", sessionID)
	}
	return s.Repo.GetResponse(appointment.Code)
}

// Reschedule moves an appointment to a new slot, excluding its own blocks
// from the usage maps so moving within the same window is legal.
func (s *AppointmentService) Reschedule(code string, req *entities.RescheduleRequest) error {
	appointment, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s not found", code)
	}
	if owner, err := s.Patients.GetByID(appointment.PatientID); err != nil || owner == nil || owner.Email != req.Email {
		return fmt.Errorf("appointment %s not found", code)
	}
	switch appointment.Status {
	case slots.StatusPending, slots.StatusApproved:
	default:
		return ErrAppointmentState
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	if date.Before(today()) {
		return errors.New("cannot move an appointment into the past")
	}

	duration, _, err := s.treatmentDuration(appointment.TreatmentID, date)
	if err != nil {
		return err
	}

	preferred := req.ScheduleID
	candidate, scheduleID, err := s.place(date, req.StartTime, duration, preferred, appointment.PatientID, appointment.ID)
	if err != nil {
		return err
	}

	err = s.Repo.UpdateSchedule(appointment.ID, date, candidate.String(),
		sql.NullInt64{Int64: int64(scheduleID), Valid: scheduleID != 0})
	if err != nil {
		return err
	}

	if response, err := s.Repo.GetResponse(code); err == nil && response != nil {
		s.sender.SendAppointmentEmail(*response, "rescheduled")
		s.sender.SendAppointmentSMS(*response, "rescheduled")
	}
	return nil
}

// Cancel cancels a booking, refunding the online deposit when one was paid.
func (s *AppointmentService) Cancel(code, email string) error {
	appointment, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s not found", code)
	}
	if owner, err := s.Patients.GetByID(appointment.PatientID); err != nil || owner == nil || owner.Email != email {
		return fmt.Errorf("appointment %s not found", code)
	}
	switch appointment.Status {
	case slots.StatusPending, slots.StatusApproved:
	default:
		return ErrAppointmentState
	}

	if start, err := startOf(appointment); err == nil && time.Until(start) < cancelNotice {
		return ErrTooLateToCancel
	}

	if appointment.PaymentStatus == statusSucceeded && appointment.StripeSessionID != "" {
		if err := s.stripeService.RefundPaymentBySessionID(appointment.StripeSessionID); err != nil {
			return fmt.Errorf("could not refund deposit: %w", err)
		}
	}

	if err := s.Repo.UpdateStatus(appointment.ID, slots.StatusCancelled); err != nil {
		return err
	}

	if response, err := s.Repo.GetResponse(code); err == nil && response != nil {
		s.sender.SendAppointmentEmail(*response, "cancelled")
		s.sender.SendAppointmentSMS(*response, "cancelled")
	}
	return nil
}

// SetStatus applies a staff-side status transition and notifies the patient.
func (s *AppointmentService) SetStatus(code, newStatus string) error {
	appointment, err := s.Repo.GetByCode(code)
	if err != nil {
		return err
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s not found", code)
	}
	if !validTransition(appointment.Status, newStatus) {
		return ErrAppointmentState
	}
	if err := s.Repo.UpdateStatus(appointment.ID, newStatus); err != nil {
		return err
	}

	if response, err := s.Repo.GetResponse(code); err == nil && response != nil {
		s.sender.SendAppointmentEmail(*response, newStatus)
		s.sender.SendAppointmentSMS(*response, newStatus)
	}
	return nil
}

func (s *AppointmentService) List(date, status string, scheduleID, limit, offset int) (*entities.AppointmentsList, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.List(date, status, scheduleID, limit, offset)
}

// ConfirmPaymentBySessionID marks a booking paid and approved after the
// checkout session completes.
func (s *AppointmentService) ConfirmPaymentBySessionID(sessionID string) error {
	return s.Repo.UpdateStatusAndPaymentBySessionID(sessionID, slots.StatusApproved, statusSucceeded)
}

func (s *AppointmentService) MarkRefundedBySessionID(sessionID string) error {
	return s.Repo.UpdateStatusAndPaymentBySessionID(sessionID, slots.StatusCancelled, statusRefunded)
}

func (s *AppointmentService) Sender() *SenderService {
	return s.sender
}

// place runs the full slot validation: patient overlap, grid capacity and
// dentist fit. Returns the candidate range and the assigned dentist schedule.
func (s *AppointmentService) place(date time.Time, startTime string, durationMinutes, preferredScheduleID, patientID, excludeID int) (slots.TimeRange, int, error) {
	begin, err := slots.ParseClock(startTime)
	if err != nil {
		return slots.TimeRange{}, 0, fmt.Errorf("bad start time %q: %w", startTime, err)
	}
	candidate := slots.TimeRange{Start: begin, End: begin + durationMinutes}

	grid, err := s.Calendar.GridFor(date)
	if err != nil {
		return slots.TimeRange{}, 0, err
	}
	if len(grid.Starts) == 0 {
		return slots.TimeRange{}, 0, ErrClinicClosed
	}

	bookings, err := s.Repo.BookingsForDate(date)
	if err != nil {
		return slots.TimeRange{}, 0, err
	}
	if slots.HasOverlappingBooking(patientID, date, candidate, bookings, excludeID) {
		return slots.TimeRange{}, 0, ErrPatientConflict
	}

	dentists, err := s.roster(preferredScheduleID)
	if err != nil {
		return slots.TimeRange{}, 0, err
	}

	dentist, ok := slots.Placement(grid, candidate, date, bookings, dentists, excludeID)
	if !ok {
		if preferredScheduleID != 0 {
			return slots.TimeRange{}, 0, ErrDentistBusy
		}
		return slots.TimeRange{}, 0, ErrSlotTaken
	}
	return candidate, dentist.ScheduleID, nil
}

func (s *AppointmentService) roster(scheduleID int) ([]slots.DentistAvailability, error) {
	dentists, err := s.Dentists.ListAvailabilities()
	if err != nil {
		return nil, err
	}
	if scheduleID == 0 {
		return dentists, nil
	}
	for _, d := range dentists {
		if d.ScheduleID == scheduleID {
			return []slots.DentistAvailability{d}, nil
		}
	}
	return nil, fmt.Errorf("dentist schedule %d not found", scheduleID)
}

func (s *AppointmentService) treatmentDuration(treatmentID int, date time.Time) (int, *db.Treatment, error) {
	treatment, err := s.Treatments.GetByID(treatmentID)
	if err != nil {
		return 0, nil, err
	}
	if treatment == nil {
		return 0, nil, fmt.Errorf("treatment %d not found", treatmentID)
	}
	day, err := s.Calendar.DayFor(date)
	if err != nil {
		return 0, nil, err
	}
	block := day.BlockMinutes
	if block <= 0 {
		block = slots.DefaultBlockMinutes
	}
	return treatment.DurationBlocks * block, treatment, nil
}

func validTransition(from, to string) bool {
	switch to {
	case slots.StatusApproved, slots.StatusRejected:
		return from == slots.StatusPending
	case slots.StatusCompleted, slots.StatusNoShow:
		return from == slots.StatusApproved
	case slots.StatusCancelled:
		return from == slots.StatusPending || from == slots.StatusApproved
	}
	return false
}

func startOf(a *db.Appointment) (time.Time, error) {
	r, err := slots.ParseRange(a.TimeRange)
	if err != nil {
		return time.Time{}, err
	}
	return a.Date.Add(time.Duration(r.Start) * time.Minute), nil
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q, expected YYYY-MM-DD", s)
	}
	return date, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func newBookingCode() string {
	return fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)
}
