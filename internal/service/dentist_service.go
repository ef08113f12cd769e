package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"smileclinic/internal/db"
	"smileclinic/internal/repository"
	"smileclinic/internal/slots"
)

type DentistService struct {
	Repo *repository.DentistRepository
}

func NewDentistService(repo *repository.DentistRepository) *DentistService {
	return &DentistService{Repo: repo}
}

func (s *DentistService) List() ([]db.DentistSchedule, error) {
	return s.Repo.List()
}

func (s *DentistService) Create(schedule *db.DentistSchedule) error {
	if err := validateSchedule(schedule); err != nil {
		return err
	}
	return s.Repo.Create(schedule)
}

func (s *DentistService) Update(schedule *db.DentistSchedule) error {
	existing, err := s.Repo.GetByID(schedule.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("dentist schedule %d not found", schedule.ID)
	}
	if err := validateSchedule(schedule); err != nil {
		return err
	}
	return s.Repo.Update(schedule)
}

func validateSchedule(schedule *db.DentistSchedule) error {
	schedule.Code = strings.TrimSpace(schedule.Code)
	schedule.FullName = strings.TrimSpace(schedule.FullName)
	if schedule.Code == "" || schedule.FullName == "" {
		return errors.New("code and full name are required")
	}
	switch schedule.Status {
	case "active", "inactive":
	default:
		return fmt.Errorf("status must be active or inactive, got %q", schedule.Status)
	}

	// Reject hour windows that would never admit a slot; blank windows mean
	// "all clinic hours" and are fine.
	pairs := []struct {
		day        string
		start, end string
	}{
		{"sunday", nullStr(schedule.SunStart), nullStr(schedule.SunEnd)},
		{"monday", nullStr(schedule.MonStart), nullStr(schedule.MonEnd)},
		{"tuesday", nullStr(schedule.TueStart), nullStr(schedule.TueEnd)},
		{"wednesday", nullStr(schedule.WedStart), nullStr(schedule.WedEnd)},
		{"thursday", nullStr(schedule.ThuStart), nullStr(schedule.ThuEnd)},
		{"friday", nullStr(schedule.FriStart), nullStr(schedule.FriEnd)},
		{"saturday", nullStr(schedule.SatStart), nullStr(schedule.SatEnd)},
	}
	for _, p := range pairs {
		if p.start == "" && p.end == "" {
			continue
		}
		if p.start == "" || p.end == "" {
			return fmt.Errorf("%s hours need both a start and an end time", p.day)
		}
		if _, err := slots.ParseRange(p.start + "-" + p.end); err != nil {
			return fmt.Errorf("bad %s hours: %w", p.day, err)
		}
	}
	return nil
}

func nullStr(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return strings.TrimSpace(s.String)
}
