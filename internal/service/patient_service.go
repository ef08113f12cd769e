package service

import (
	"errors"
	"fmt"
	"strings"

	"smileclinic/internal/db"
	"smileclinic/internal/repository"
)

type PatientService struct {
	Repo *repository.PatientRepository
}

func NewPatientService(repo *repository.PatientRepository) *PatientService {
	return &PatientService{Repo: repo}
}

func (s *PatientService) Register(p *db.Patient) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.FullName == "" || p.Email == "" {
		return errors.New("full name and email are required")
	}

	existing, err := s.Repo.GetByEmail(p.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("a patient with email %s already exists", p.Email)
	}
	return s.Repo.Create(p)
}

func (s *PatientService) Get(id int) (*db.Patient, error) {
	patient, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %d not found", id)
	}
	return patient, nil
}

func (s *PatientService) Update(p *db.Patient) error {
	existing, err := s.Repo.GetByID(p.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("patient %d not found", p.ID)
	}
	return s.Repo.Update(p)
}

func (s *PatientService) List(search string, limit, offset int) ([]db.Patient, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.List(search, limit, offset)
}
