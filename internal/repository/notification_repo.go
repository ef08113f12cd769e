package repository

import (
	"database/sql"
	"fmt"

	"smileclinic/internal/db"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(database *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: database}
}

func (r *NotificationRepository) Record(n *db.Notification) error {
	query := `INSERT INTO notifications (channel, recipient, subject, status, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING id`
	return r.DB.QueryRow(query, n.Channel, n.Recipient, n.Subject, n.Status).Scan(&n.ID)
}

func (r *NotificationRepository) ListRecent(limit int) ([]db.Notification, error) {
	query := `SELECT id, channel, recipient, subject, status, created_at
		FROM notifications ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []db.Notification
	for rows.Next() {
		var n db.Notification
		if err := rows.Scan(&n.ID, &n.Channel, &n.Recipient, &n.Subject, &n.Status, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
