package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"smileclinic/internal/db"
)

type PatientRepository struct {
	DB *sql.DB
}

func NewPatientRepository(database *sql.DB) *PatientRepository {
	return &PatientRepository{DB: database}
}

const patientColumns = `id, full_name, email, phone, birth_date, notes, created_at, updated_at`

func (r *PatientRepository) Create(p *db.Patient) error {
	query := `
		INSERT INTO patients (full_name, email, phone, birth_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`
	return r.DB.QueryRow(query, p.FullName, p.Email, p.Phone, p.BirthDate, p.Notes).Scan(&p.ID)
}

func (r *PatientRepository) GetByID(id int) (*db.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return r.scanOne(r.DB.QueryRow(query, id))
}

func (r *PatientRepository) GetByEmail(email string) (*db.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1`
	return r.scanOne(r.DB.QueryRow(query, email))
}

func (r *PatientRepository) Update(p *db.Patient) error {
	query := `UPDATE patients SET full_name = $1, email = $2, phone = $3, birth_date = $4, notes = $5, updated_at = NOW() WHERE id = $6`
	_, err := r.DB.Exec(query, p.FullName, p.Email, p.Phone, p.BirthDate, p.Notes, p.ID)
	return err
}

func (r *PatientRepository) List(search string, limit, offset int) ([]db.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients
		WHERE $1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY full_name LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}
	defer rows.Close()

	var patients []db.Patient
	for rows.Next() {
		var p db.Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.BirthDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PatientRepository) scanOne(row *sql.Row) (*db.Patient, error) {
	var p db.Patient
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.BirthDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
