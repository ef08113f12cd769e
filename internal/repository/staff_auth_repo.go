package repository

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"smileclinic/internal/db"
)

type StaffAuthRepository interface {
	GetByEmail(email string) (*db.StaffAccount, error)
	CreateAccount(email, password, role string) error
}

type staffAuthRepository struct {
	db *sql.DB
}

func NewStaffAuthRepository(database *sql.DB) StaffAuthRepository {
	return &staffAuthRepository{db: database}
}

func (r *staffAuthRepository) GetByEmail(email string) (*db.StaffAccount, error) {
	var account db.StaffAccount
	err := r.db.QueryRow(`SELECT id, email, password_hash, role FROM staff_accounts WHERE email = $1`, email).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *staffAuthRepository) CreateAccount(email, password, role string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO staff_accounts (email, password_hash, role) VALUES ($1, $2, $3)`,
		email, hashedPassword, role)
	return err
}
