package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"smileclinic/internal/db"
)

type TreatmentRepository struct {
	DB *sql.DB
}

func NewTreatmentRepository(database *sql.DB) *TreatmentRepository {
	return &TreatmentRepository{DB: database}
}

func (r *TreatmentRepository) List() ([]db.Treatment, error) {
	rows, err := r.DB.Query(`SELECT id, name, duration_blocks, price_cents FROM treatments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing treatments: %w", err)
	}
	defer rows.Close()

	var treatments []db.Treatment
	for rows.Next() {
		var t db.Treatment
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationBlocks, &t.PriceCents); err != nil {
			return nil, fmt.Errorf("error scanning treatment: %w", err)
		}
		treatments = append(treatments, t)
	}
	return treatments, rows.Err()
}

func (r *TreatmentRepository) GetByID(id int) (*db.Treatment, error) {
	var t db.Treatment
	err := r.DB.QueryRow(`SELECT id, name, duration_blocks, price_cents FROM treatments WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.DurationBlocks, &t.PriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
