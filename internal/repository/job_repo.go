package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"smileclinic/internal/entities"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetApprovedIDsPastEnd returns approved appointments whose time range has
// already finished.
func (r *JobRepository) GetApprovedIDsPastEnd() ([]int, error) {
	query := `
		SELECT id FROM appointments
		WHERE status = 'approved'
		  AND (date + split_part(time_range, '-', 2)::time) < NOW()`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *JobRepository) UpdateAppointmentStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Warnf("could not get rows affected: %v", err)
	} else {
		log.Infof("updated status for %d appointments to %q", rowsAffected, newStatus)
	}
	return nil
}

// DeletePendingOlderThan removes pending bookings that never got paid or
// approved, freeing their blocks.
func (r *JobRepository) DeletePendingOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM appointments WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending appointments: %w", err)
	}
	return result.RowsAffected()
}

// RemindersForDate returns the counted bookings on the date, joined with
// patient contact details, for the day-before reminder fan-out.
func (r *JobRepository) RemindersForDate(date time.Time) ([]entities.AppointmentResponse, error) {
	query := `
		SELECT a.code, p.full_name, p.email, p.phone, t.name, COALESCE(d.code, ''),
			a.date, a.time_range, a.status, a.payment_method, a.payment_status,
			a.created_at, a.updated_at
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN treatments t ON t.id = a.treatment_id
		LEFT JOIN dentist_schedules d ON d.id = a.schedule_id
		WHERE a.date = $1 AND a.status IN ('pending', 'approved')
		ORDER BY a.time_range`

	rows, err := r.DB.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying reminder appointments: %w", err)
	}
	defer rows.Close()

	var reminders []entities.AppointmentResponse
	for rows.Next() {
		var a entities.AppointmentResponse
		if err := rows.Scan(&a.Code, &a.PatientName, &a.PatientEmail, &a.PatientPhone,
			&a.Treatment, &a.DentistCode, &a.Date, &a.TimeRange, &a.Status,
			&a.PaymentMethod, &a.PaymentStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		reminders = append(reminders, a)
	}
	return reminders, rows.Err()
}
