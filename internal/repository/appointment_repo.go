package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smileclinic/internal/db"
	"smileclinic/internal/entities"
	"smileclinic/internal/slots"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

const appointmentColumns = `id, code, patient_id, treatment_id, schedule_id, date, time_range,
		status, notes, payment_method, payment_status, stripe_session_id, created_at, updated_at`

func (r *AppointmentRepository) Create(a *db.Appointment) error {
	query := `
		INSERT INTO appointments (code, patient_id, treatment_id, schedule_id, date, time_range,
			status, notes, payment_method, payment_status, stripe_session_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
		RETURNING id`
	return r.DB.QueryRow(query,
		a.Code, a.PatientID, a.TreatmentID, a.ScheduleID, a.Date, a.TimeRange,
		a.Status, a.Notes, a.PaymentMethod, a.PaymentStatus, a.StripeSessionID,
	).Scan(&a.ID)
}

func (r *AppointmentRepository) GetByCode(code string) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE code = $1`
	return r.scanOne(r.DB.QueryRow(query, code))
}

func (r *AppointmentRepository) GetByStripeSessionID(sessionID string) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE stripe_session_id = $1`
	return r.scanOne(r.DB.QueryRow(query, sessionID))
}

// BookingsForDate returns the slot-engine projection of every booking on the
// date, cancelled ones included; the engine filters by counted status itself.
func (r *AppointmentRepository) BookingsForDate(date time.Time) ([]slots.BookingRecord, error) {
	query := `SELECT id, patient_id, COALESCE(schedule_id, 0), date, time_range, status
		FROM appointments WHERE date = $1`
	rows, err := r.DB.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for date: %w", err)
	}
	defer rows.Close()

	var bookings []slots.BookingRecord
	for rows.Next() {
		var b slots.BookingRecord
		if err := rows.Scan(&b.ID, &b.PatientID, &b.ScheduleID, &b.Date, &b.TimeRange, &b.Status); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *AppointmentRepository) List(date, status string, scheduleID, limit, offset int) (*entities.AppointmentsList, error) {
	query := `
		SELECT a.code, p.full_name, p.email, p.phone, t.name, COALESCE(d.code, ''),
			a.date, a.time_range, a.status, a.payment_method, a.payment_status,
			a.created_at, a.updated_at, COUNT(*) OVER() AS total
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN treatments t ON t.id = a.treatment_id
		LEFT JOIN dentist_schedules d ON d.id = a.schedule_id
		WHERE ($1 = '' OR a.date = $1::date)
		  AND ($2 = '' OR a.status = $2)
		  AND ($3 = 0 OR a.schedule_id = $3)
		ORDER BY a.date, a.time_range
		LIMIT $4 OFFSET $5`

	rows, err := r.DB.Query(query, date, status, scheduleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer rows.Close()

	list := &entities.AppointmentsList{Limit: limit, Offset: offset}
	for rows.Next() {
		var a entities.AppointmentResponse
		if err := rows.Scan(&a.Code, &a.PatientName, &a.PatientEmail, &a.PatientPhone,
			&a.Treatment, &a.DentistCode, &a.Date, &a.TimeRange, &a.Status,
			&a.PaymentMethod, &a.PaymentStatus, &a.CreatedAt, &a.UpdatedAt, &list.Total); err != nil {
			return nil, fmt.Errorf("error scanning appointment row: %w", err)
		}
		list.Appointments = append(list.Appointments, a)
	}
	return list, rows.Err()
}

// GetResponse loads the joined read model for one appointment.
func (r *AppointmentRepository) GetResponse(code string) (*entities.AppointmentResponse, error) {
	query := `
		SELECT a.code, p.full_name, p.email, p.phone, t.name, COALESCE(d.code, ''),
			a.date, a.time_range, a.status, a.payment_method, a.payment_status,
			a.created_at, a.updated_at
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN treatments t ON t.id = a.treatment_id
		LEFT JOIN dentist_schedules d ON d.id = a.schedule_id
		WHERE a.code = $1`

	var a entities.AppointmentResponse
	err := r.DB.QueryRow(query, code).Scan(&a.Code, &a.PatientName, &a.PatientEmail, &a.PatientPhone,
		&a.Treatment, &a.DentistCode, &a.Date, &a.TimeRange, &a.Status,
		&a.PaymentMethod, &a.PaymentStatus, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(id int, status string) error {
	_, err := r.DB.Exec(`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

func (r *AppointmentRepository) UpdateSchedule(id int, date time.Time, timeRange string, scheduleID sql.NullInt64) error {
	query := `UPDATE appointments SET date = $1, time_range = $2, schedule_id = $3, updated_at = NOW() WHERE id = $4`
	_, err := r.DB.Exec(query, date, timeRange, scheduleID, id)
	return err
}

func (r *AppointmentRepository) UpdateStatusAndPaymentBySessionID(sessionID, status, paymentStatus string) error {
	query := `UPDATE appointments SET status = $1, payment_status = $2, updated_at = NOW() WHERE stripe_session_id = $3`
	_, err := r.DB.Exec(query, status, paymentStatus, sessionID)
	return err
}

func (r *AppointmentRepository) scanOne(row *sql.Row) (*db.Appointment, error) {
	var a db.Appointment
	err := row.Scan(&a.ID, &a.Code, &a.PatientID, &a.TreatmentID, &a.ScheduleID, &a.Date, &a.TimeRange,
		&a.Status, &a.Notes, &a.PaymentMethod, &a.PaymentStatus, &a.StripeSessionID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
