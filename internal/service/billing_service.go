package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smileclinic/internal/db"
	"smileclinic/internal/repository"
	"smileclinic/internal/slots"
)

var ErrInvoiceExists = errors.New("appointment already has an invoice")

type BillingService struct {
	Repo         *repository.BillingRepository
	Appointments *repository.AppointmentRepository
	Treatments   *repository.TreatmentRepository
	sender       *SenderService
}

func NewBillingService(repo *repository.BillingRepository, appointments *repository.AppointmentRepository,
	treatments *repository.TreatmentRepository, sender *SenderService) *BillingService {
	return &BillingService{Repo: repo, Appointments: appointments, Treatments: treatments, sender: sender}
}

// IssueInvoice creates the invoice for a completed appointment from its
// treatment price, minus any staff-entered discount.
func (s *BillingService) IssueInvoice(appointmentCode string, discountCents int) (*db.Invoice, error) {
	appointment, err := s.Appointments.GetByCode(appointmentCode)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %s not found", appointmentCode)
	}
	if appointment.Status != slots.StatusCompleted {
		return nil, fmt.Errorf("can only invoice completed appointments, %s is %s", appointmentCode, appointment.Status)
	}

	existing, err := s.Repo.GetInvoiceByAppointment(appointment.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvoiceExists
	}

	treatment, err := s.Treatments.GetByID(appointment.TreatmentID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, fmt.Errorf("treatment %d not found", appointment.TreatmentID)
	}
	if discountCents < 0 || discountCents > treatment.PriceCents {
		return nil, fmt.Errorf("discount must be between 0 and the treatment price")
	}

	invoice := &db.Invoice{
		AppointmentID: appointment.ID,
		ReceiptNumber: newReceiptNumber(),
		AmountCents:   treatment.PriceCents,
		DiscountCents: discountCents,
		TotalCents:    treatment.PriceCents - discountCents,
		Status:        "open",
	}
	if err := s.Repo.CreateInvoice(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RecordPayment settles an invoice with an on-site payment (cash or card at
// the desk) and emails the receipt.
func (s *BillingService) RecordPayment(appointmentCode, method string, amountCents int) (*db.Invoice, error) {
	appointment, err := s.Appointments.GetByCode(appointmentCode)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %s not found", appointmentCode)
	}

	invoice, err := s.Repo.GetInvoiceByAppointment(appointment.ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("appointment %s has no invoice", appointmentCode)
	}
	if invoice.Status == "paid" {
		return nil, fmt.Errorf("invoice %s is already paid", invoice.ReceiptNumber)
	}
	if amountCents != invoice.TotalCents {
		return nil, fmt.Errorf("payment of %d does not match invoice total %d", amountCents, invoice.TotalCents)
	}

	payment := &db.Payment{InvoiceID: invoice.ID, Method: method, AmountCents: amountCents}
	if err := s.Repo.CreatePayment(payment); err != nil {
		return nil, err
	}
	if err := s.Repo.MarkInvoicePaid(invoice.ID); err != nil {
		return nil, err
	}
	invoice.Status = "paid"

	if response, err := s.Appointments.GetResponse(appointmentCode); err == nil && response != nil {
		s.sender.SendReceiptEmail(*response, *invoice, method)
	}
	return invoice, nil
}

func (s *BillingService) GetInvoice(appointmentCode string) (*db.Invoice, error) {
	appointment, err := s.Appointments.GetByCode(appointmentCode)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %s not found", appointmentCode)
	}
	return s.Repo.GetInvoiceByAppointment(appointment.ID)
}

func newReceiptNumber() string {
	return "RC-" + strings.ToUpper(uuid.NewString()[:8])
}
