package entities

import "time"

type AppointmentResponse struct {
	Code          string    `json:"code"`
	PatientName   string    `json:"patient_name"`
	PatientEmail  string    `json:"patient_email"`
	PatientPhone  string    `json:"patient_phone"`
	Treatment     string    `json:"treatment"`
	DentistCode   string    `json:"dentist_code,omitempty"`
	Date          time.Time `json:"date"`
	TimeRange     string    `json:"time_range"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentsList struct {
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type BookingConfirmation struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}
