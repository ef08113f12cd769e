package service

import (
	"errors"
	"fmt"

	"smileclinic/internal/db"
	"smileclinic/internal/entities"
	"smileclinic/internal/repository"
	"smileclinic/internal/slots"
)

var (
	ErrFeedbackExists   = errors.New("feedback already submitted for this appointment")
	ErrFeedbackNotReady = errors.New("feedback can only be left for completed appointments")
)

type FeedbackService struct {
	Repo         *repository.FeedbackRepository
	Appointments *repository.AppointmentRepository
	Patients     *repository.PatientRepository
}

func NewFeedbackService(repo *repository.FeedbackRepository, appointments *repository.AppointmentRepository,
	patients *repository.PatientRepository) *FeedbackService {
	return &FeedbackService{Repo: repo, Appointments: appointments, Patients: patients}
}

// Submit records a post-visit survey entry. The caller must present the
// appointment code together with the patient's email, one entry per visit.
func (s *FeedbackService) Submit(req *entities.FeedbackRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	appointment, err := s.Appointments.GetByCode(req.AppointmentCode)
	if err != nil {
		return err
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s not found", req.AppointmentCode)
	}
	if owner, err := s.Patients.GetByID(appointment.PatientID); err != nil || owner == nil || owner.Email != req.Email {
		return fmt.Errorf("appointment %s not found", req.AppointmentCode)
	}
	if appointment.Status != slots.StatusCompleted {
		return ErrFeedbackNotReady
	}

	exists, err := s.Repo.ExistsForAppointment(appointment.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrFeedbackExists
	}

	return s.Repo.Create(&db.Feedback{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
}

func (s *FeedbackService) Summary(limit, offset int) (*entities.FeedbackSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Repo.Summary(limit, offset)
}
