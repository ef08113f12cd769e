package entities

type AppointmentRequest struct {
	PatientID     int    `json:"patient_id"`
	TreatmentID   int    `json:"treatment_id"`
	ScheduleID    int    `json:"dentist_schedule_id,omitempty"`
	Date          string `json:"date"`       // "2006-01-02"
	StartTime     string `json:"start_time"` // "HH:MM"
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"payment_method"` // "online" or "onsite"
}

type RescheduleRequest struct {
	Email      string `json:"email"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	ScheduleID int    `json:"dentist_schedule_id,omitempty"`
}
