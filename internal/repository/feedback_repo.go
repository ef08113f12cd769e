package repository

import (
	"database/sql"
	"fmt"

	"smileclinic/internal/db"
	"smileclinic/internal/entities"
)

type FeedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(database *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: database}
}

func (r *FeedbackRepository) Create(f *db.Feedback) error {
	query := `INSERT INTO feedback (appointment_id, patient_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	return r.DB.QueryRow(query, f.AppointmentID, f.PatientID, f.Rating, f.Comment).Scan(&f.ID)
}

func (r *FeedbackRepository) ExistsForAppointment(appointmentID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM feedback WHERE appointment_id = $1)`, appointmentID).Scan(&exists)
	return exists, err
}

func (r *FeedbackRepository) Summary(limit, offset int) (*entities.FeedbackSummary, error) {
	summary := &entities.FeedbackSummary{}
	err := r.DB.QueryRow(`SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM feedback`).
		Scan(&summary.Total, &summary.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback summary: %w", err)
	}

	query := `
		SELECT a.code, p.full_name, f.rating, f.comment, f.created_at
		FROM feedback f
		JOIN appointments a ON a.id = f.appointment_id
		JOIN patients p ON p.id = f.patient_id
		ORDER BY f.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entities.FeedbackResponse
		if err := rows.Scan(&e.AppointmentCode, &e.PatientName, &e.Rating, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		summary.Entries = append(summary.Entries, e)
	}
	return summary, rows.Err()
}
