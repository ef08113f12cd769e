package entities

import "time"

type FeedbackRequest struct {
	AppointmentCode string `json:"appointment_code"`
	Email           string `json:"email"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment,omitempty"`
}

type FeedbackResponse struct {
	AppointmentCode string    `json:"appointment_code"`
	PatientName     string    `json:"patient_name"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type FeedbackSummary struct {
	Total         int64              `json:"total"`
	AverageRating float64            `json:"average_rating"`
	Entries       []FeedbackResponse `json:"entries"`
}
