package service

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"smileclinic/internal/repository"
	"smileclinic/internal/slots"
)

type JobService struct {
	Repo      *repository.JobRepository
	Inventory *InventoryService
	sender    *SenderService
}

func NewJobService(repo *repository.JobRepository, inventory *InventoryService, sender *SenderService) *JobService {
	return &JobService{Repo: repo, Inventory: inventory, sender: sender}
}

// CompletePastAppointments marks approved appointments whose time range has
// finished as completed.
func (s *JobService) CompletePastAppointments() error {
	log.Info("cron: checking for appointments to mark as completed")

	ids, err := s.Repo.GetApprovedIDsPastEnd()
	if err != nil {
		return fmt.Errorf("cron: failed to get appointments past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Infof("cron: marking %d appointments completed, IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateAppointmentStatuses(ids, slots.StatusCompleted); err != nil {
		return fmt.Errorf("cron: failed to update appointment statuses: %w", err)
	}
	return nil
}

// PurgeStalePending deletes pending bookings older than the cutoff whose
// deposit never arrived, so their blocks go back on the market.
func (s *JobService) PurgeStalePending(maxAge time.Duration) error {
	deleted, err := s.Repo.DeletePendingOlderThan(time.Now().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("cron: failed to purge stale pending appointments: %w", err)
	}
	if deleted > 0 {
		log.Infof("cron: purged %d stale pending appointments", deleted)
	}
	return nil
}

// SendTomorrowReminders emails and texts every patient with a counted
// booking tomorrow.
func (s *JobService) SendTomorrowReminders() error {
	tomorrow := time.Now().AddDate(0, 0, 1)
	date := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())

	reminders, err := s.Repo.RemindersForDate(date)
	if err != nil {
		return fmt.Errorf("cron: failed to load reminder appointments: %w", err)
	}

	log.Infof("cron: sending %d appointment reminders for %s", len(reminders), date.Format("2006-01-02"))
	for _, appointment := range reminders {
		s.sender.SendAppointmentEmail(appointment, "coming up tomorrow")
		s.sender.SendAppointmentSMS(appointment, "coming up tomorrow")
	}
	return nil
}

// LowStockAlert mails the clinic inbox when inventory drops below reorder
// thresholds.
func (s *JobService) LowStockAlert() error {
	toEmail := os.Getenv("CLINIC_ALERT_EMAIL")
	if toEmail == "" {
		log.Warn("cron: CLINIC_ALERT_EMAIL not set, skipping low stock alert")
		return nil
	}

	low, err := s.Inventory.LowStock()
	if err != nil {
		return fmt.Errorf("cron: failed to compute low stock: %w", err)
	}
	if len(low) == 0 {
		return nil
	}

	log.Infof("cron: %d inventory items below threshold", len(low))
	s.sender.SendLowStockDigest(toEmail, low)
	return nil
}
