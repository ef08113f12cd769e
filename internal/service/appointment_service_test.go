package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smileclinic/internal/slots"
)

var testDay = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // a Monday

func testGrid() slots.CapacityGrid {
	return slots.CapacityGrid{
		Starts:       []string{"09:00", "09:30", "10:00", "10:30"},
		Capacity:     2,
		BlockMinutes: 30,
	}
}

func testRoster() []slots.DentistAvailability {
	var workdays [7]bool
	for i := range workdays {
		workdays[i] = true
	}
	return []slots.DentistAvailability{
		{ScheduleID: 1, Code: "DRA", Active: true, Workdays: workdays},
		{ScheduleID: 2, Code: "DRB", Active: true, Workdays: workdays},
	}
}

func TestComputeDayAvailabilityClosedDay(t *testing.T) {
	day := computeDayAvailability(slots.CapacityGrid{}, nil, testRoster(), testDay, 30, 0)

	assert.False(t, day.Open)
	assert.Empty(t, day.Blocks)
	assert.Empty(t, day.AvailableStarts)
}

func TestComputeDayAvailabilityEmptyDay(t *testing.T) {
	day := computeDayAvailability(testGrid(), nil, testRoster(), testDay, 30, 0)

	require.True(t, day.Open)
	require.Len(t, day.Blocks, 4)
	assert.Equal(t, "09:00", day.Blocks[0].Start)
	assert.Equal(t, "09:30", day.Blocks[0].End)
	assert.Equal(t, 0, day.Blocks[0].Booked)
	assert.True(t, day.Blocks[0].Bookable)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, day.AvailableStarts)
}

func TestComputeDayAvailabilityCountsBookings(t *testing.T) {
	bookings := []slots.BookingRecord{
		{ID: 1, PatientID: 1, ScheduleID: 1, Date: testDay, TimeRange: "09:00-09:30", Status: slots.StatusApproved},
		{ID: 2, PatientID: 2, ScheduleID: 2, Date: testDay, TimeRange: "09:00-09:30", Status: slots.StatusPending},
	}

	day := computeDayAvailability(testGrid(), bookings, testRoster(), testDay, 30, 0)

	require.True(t, day.Open)
	assert.Equal(t, 2, day.Blocks[0].Booked)
	assert.False(t, day.Blocks[0].Bookable)
	assert.NotContains(t, day.AvailableStarts, "09:00")
	assert.Contains(t, day.AvailableStarts, "09:30")
}

func TestComputeDayAvailabilityIgnoresCancelled(t *testing.T) {
	bookings := []slots.BookingRecord{
		{ID: 1, PatientID: 1, ScheduleID: 1, Date: testDay, TimeRange: "09:00-09:30", Status: slots.StatusCancelled},
		{ID: 2, PatientID: 2, ScheduleID: 1, Date: testDay, TimeRange: "09:00-09:30", Status: slots.StatusRejected},
	}

	day := computeDayAvailability(testGrid(), bookings, testRoster(), testDay, 30, 0)

	assert.Equal(t, 0, day.Blocks[0].Booked)
	assert.Contains(t, day.AvailableStarts, "09:00")
}

func TestComputeDayAvailabilityLongTreatmentNeedsRoom(t *testing.T) {
	// A 60-minute treatment starting at 10:30 would run past the last block.
	day := computeDayAvailability(testGrid(), nil, testRoster(), testDay, 60, 0)

	assert.Contains(t, day.AvailableStarts, "10:00")
	assert.NotContains(t, day.AvailableStarts, "10:30")
}

func TestComputeDayAvailabilityExcludesRescheduledBooking(t *testing.T) {
	bookings := []slots.BookingRecord{
		{ID: 7, PatientID: 1, ScheduleID: 1, Date: testDay, TimeRange: "09:00-09:30", Status: slots.StatusApproved},
	}

	day := computeDayAvailability(testGrid(), bookings, testRoster(), testDay, 30, 7)

	assert.Equal(t, 0, day.Blocks[0].Booked)
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{slots.StatusPending, slots.StatusApproved, true},
		{slots.StatusPending, slots.StatusRejected, true},
		{slots.StatusPending, slots.StatusCancelled, true},
		{slots.StatusPending, slots.StatusCompleted, false},
		{slots.StatusApproved, slots.StatusCompleted, true},
		{slots.StatusApproved, slots.StatusNoShow, true},
		{slots.StatusApproved, slots.StatusCancelled, true},
		{slots.StatusApproved, slots.StatusApproved, false},
		{slots.StatusCompleted, slots.StatusCancelled, false},
		{slots.StatusCancelled, slots.StatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, validTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, testDay, date)

	_, err = parseDate("10/06/2024")
	assert.Error(t, err)
}
