package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-06-10 is a Monday.
var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func workingDentist() DentistAvailability {
	d := DentistAvailability{ScheduleID: 1, Code: "DR-A", Active: true}
	d.Workdays[time.Monday] = true
	return d
}

func TestIsActiveOn(t *testing.T) {
	d := workingDentist()
	assert.True(t, d.IsActiveOn(monday))

	// Weekday flag off blocks the whole day.
	assert.False(t, d.IsActiveOn(monday.AddDate(0, 0, 1)))

	d.Active = false
	assert.False(t, d.IsActiveOn(monday))
}

func TestIsActiveOnContractEnd(t *testing.T) {
	d := workingDentist()

	ended := monday.AddDate(0, 0, -1)
	d.ContractEnd = &ended
	assert.False(t, d.IsActiveOn(monday))

	// Contract ending on the target date still counts.
	sameDay := monday
	d.ContractEnd = &sameDay
	assert.True(t, d.IsActiveOn(monday))

	future := monday.AddDate(1, 0, 0)
	d.ContractEnd = &future
	assert.True(t, d.IsActiveOn(monday))
}

func TestSlotFitsHoursUnconstrained(t *testing.T) {
	d := workingDentist()

	// No window configured for Monday: available all clinic hours.
	for _, s := range []string{"08:00-08:30", "10:00-10:30", "14:00-14:30"} {
		r, _ := ParseRange(s)
		assert.True(t, d.SlotFitsHours(monday, r), s)
	}
}

func TestSlotFitsHoursWindow(t *testing.T) {
	d := workingDentist()
	d.Hours[time.Monday] = &TimeRange{Start: 540, End: 600} // 09:00-10:00

	tests := []struct {
		candidate string
		want      bool
	}{
		{"09:00-09:30", true},
		{"09:30-10:00", true},
		{"10:00-10:30", false},
		{"09:30-10:30", false}, // extends past the dentist's closing time
		{"08:30-09:00", false},
	}
	for _, tt := range tests {
		r, _ := ParseRange(tt.candidate)
		assert.Equal(t, tt.want, d.SlotFitsHours(monday, r), tt.candidate)
	}
}

func TestSlotFitsHoursOffDay(t *testing.T) {
	d := workingDentist()
	d.Workdays[time.Monday] = false
	d.Hours[time.Monday] = &TimeRange{Start: 540, End: 1020}

	// An off-day rejects even candidates inside the configured window.
	r, _ := ParseRange("09:00-09:30")
	assert.False(t, d.SlotFitsHours(monday, r))
}
