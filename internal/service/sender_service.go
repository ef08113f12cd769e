package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"smileclinic/internal/db"
	"smileclinic/internal/entities"
	"smileclinic/internal/repository"
)

const dateFormat = "Mon 02 Jan 2006"

type SenderService struct {
	Notifications *repository.NotificationRepository
}

func NewSenderService(notifications *repository.NotificationRepository) *SenderService {
	return &SenderService{Notifications: notifications}
}

// SendAppointmentEmail delivers a status email for an appointment. The send
// happens on a goroutine so booking requests never wait on SendGrid.
func (s *SenderService) SendAppointmentEmail(appointment entities.AppointmentResponse, status string) {
	data := entities.AppointmentEmailData{
		PatientName:   appointment.PatientName,
		Code:          appointment.Code,
		Treatment:     appointment.Treatment,
		DentistCode:   appointment.DentistCode,
		DateFormatted: appointment.Date.Format(dateFormat),
		TimeRange:     appointment.TimeRange,
		Status:        status,
		CurrentYear:   time.Now().Year(),
	}

	subject := fmt.Sprintf("Your SmileCare appointment is %s - Code: %s", status, data.Code)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour appointment at SmileCare Dental is %s.\n\n"+
			"Appointment details:\n"+
			"Code: %s\n"+
			"Treatment: %s\n"+
			"Date: %s\n"+
			"Time: %s\n\n"+
			"Thank you for choosing SmileCare Dental.",
		data.PatientName, status, data.Code, data.Treatment, data.DateFormatted, data.TimeRange,
	)

	htmlBody := s.renderTemplate("appointment_email.html", data)

	go func() {
		err := SendEmailWithSendGrid(appointment.PatientEmail, data.PatientName, subject, plainBody, htmlBody)
		s.record("email", appointment.PatientEmail, subject, err)
	}()
}

func (s *SenderService) SendAppointmentSMS(appointment entities.AppointmentResponse, status string) {
	message := fmt.Sprintf("SmileCare Dental: appointment %s is %s.\n%s at %s.\nMore details in your email.",
		appointment.Code, status,
		appointment.Date.Format("02/01"), appointment.TimeRange,
	)

	err := SendSMS(appointment.PatientPhone, message)
	s.record("sms", appointment.PatientPhone, "appointment "+status, err)
}

// SendReceiptEmail delivers the payment receipt for an invoice.
func (s *SenderService) SendReceiptEmail(appointment entities.AppointmentResponse, invoice db.Invoice, method string) {
	data := entities.ReceiptEmailData{
		PatientName:   appointment.PatientName,
		ReceiptNumber: invoice.ReceiptNumber,
		Code:          appointment.Code,
		Treatment:     appointment.Treatment,
		DateFormatted: appointment.Date.Format(dateFormat),
		Amount:        formatCents(invoice.AmountCents),
		Discount:      formatCents(invoice.DiscountCents),
		Total:         formatCents(invoice.TotalCents),
		Method:        method,
		CurrentYear:   time.Now().Year(),
	}

	subject := fmt.Sprintf("SmileCare receipt %s", data.ReceiptNumber)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nThank you for your payment.\n\n"+
			"Receipt: %s\n"+
			"Appointment: %s (%s)\n"+
			"Date: %s\n"+
			"Amount: %s\n"+
			"Discount: %s\n"+
			"Total paid: %s (%s)\n\n"+
			"SmileCare Dental.",
		data.PatientName, data.ReceiptNumber, data.Code, data.Treatment,
		data.DateFormatted, data.Amount, data.Discount, data.Total, data.Method,
	)

	htmlBody := s.renderTemplate("receipt_email.html", data)

	go func() {
		err := SendEmailWithSendGrid(appointment.PatientEmail, data.PatientName, subject, plainBody, htmlBody)
		s.record("email", appointment.PatientEmail, subject, err)
	}()
}

// SendLowStockDigest emails the clinic inbox a list of items below their
// reorder threshold.
func (s *SenderService) SendLowStockDigest(toEmail string, levels []repository.StockLevel) {
	if len(levels) == 0 {
		return
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "The following inventory items are below their reorder threshold:\n\n")
	for _, l := range levels {
		fmt.Fprintf(&buf, "- %s: %d %s on hand (threshold %d)\n", l.Item.Name, l.OnHand, l.Item.Unit, l.Item.ReorderThreshold)
	}

	subject := fmt.Sprintf("Low stock alert: %d items need reordering", len(levels))
	err := SendEmailWithSendGrid(toEmail, "SmileCare Staff", subject, buf.String(), "")
	s.record("email", toEmail, subject, err)
}

func (s *SenderService) renderTemplate(name string, data any) string {
	tmplPath := filepath.Join("internal", "templates", name)
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Warnf("error parsing email template %s: %v", tmplPath, err)
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Warnf("error executing email template %s: %v", tmplPath, err)
		return ""
	}
	return buf.String()
}

func (s *SenderService) record(channel, recipient, subject string, sendErr error) {
	status := "sent"
	if sendErr != nil {
		status = "failed"
	}
	n := &db.Notification{Channel: channel, Recipient: recipient, Subject: subject, Status: status}
	if err := s.Notifications.Record(n); err != nil {
		log.Warnf("could not record %s notification to %s: %v", channel, recipient, err)
	}
}

func formatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
