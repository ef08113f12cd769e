package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() CapacityGrid {
	return CapacityGrid{Starts: []string{"09:00", "09:30", "10:00"}, Capacity: 1}
}

func TestBuildGlobalUsage(t *testing.T) {
	grid := testGrid()
	bookings := []BookingRecord{
		{ID: 1, PatientID: 7, Date: monday, TimeRange: "09:00-10:00", Status: StatusApproved},
	}

	usage := BuildGlobalUsage(grid, bookings, 0)
	assert.Equal(t, UsageMap{"09:00": 1, "09:30": 1, "10:00": 0}, usage)

	// Same inputs, same map.
	assert.Equal(t, usage, BuildGlobalUsage(grid, bookings, 0))
}

func TestBuildGlobalUsageSkipsUncounted(t *testing.T) {
	grid := testGrid()
	bookings := []BookingRecord{
		{ID: 1, TimeRange: "09:00-09:30", Status: StatusCancelled},
		{ID: 2, TimeRange: "09:00-09:30", Status: StatusRejected},
		{ID: 3, TimeRange: "09:00-09:30", Status: StatusNoShow},
		{ID: 4, TimeRange: "09:30-10:00", Status: StatusPending},
	}

	usage := BuildGlobalUsage(grid, bookings, 0)
	assert.Equal(t, UsageMap{"09:00": 0, "09:30": 1, "10:00": 0}, usage)

	// Excluding the one counted booking empties the map.
	usage = BuildGlobalUsage(grid, bookings, 4)
	assert.Equal(t, UsageMap{"09:00": 0, "09:30": 0, "10:00": 0}, usage)
}

func TestBuildGlobalUsageMalformedRange(t *testing.T) {
	grid := testGrid()
	good := []BookingRecord{
		{ID: 1, TimeRange: "09:00-09:30", Status: StatusApproved},
	}
	withBad := append([]BookingRecord{
		{ID: 2, TimeRange: "garbage", Status: StatusApproved},
		{ID: 3, TimeRange: "10:00-09:00", Status: StatusApproved},
	}, good...)

	// Malformed and inverted ranges are skipped, never fatal.
	assert.Equal(t, BuildGlobalUsage(grid, good, 0), BuildGlobalUsage(grid, withBad, 0))
}

func TestBuildGlobalUsageIgnoresOutOfGridBlocks(t *testing.T) {
	grid := testGrid()
	bookings := []BookingRecord{
		{ID: 1, TimeRange: "08:30-09:30", Status: StatusApproved},
	}

	usage := BuildGlobalUsage(grid, bookings, 0)
	assert.Equal(t, UsageMap{"09:00": 1, "09:30": 0, "10:00": 0}, usage)
}

func TestBuildPerDentistUsage(t *testing.T) {
	bookings := []BookingRecord{
		{ID: 1, ScheduleID: 3, TimeRange: "09:00-10:00", Status: StatusApproved},
		{ID: 2, ScheduleID: 5, TimeRange: "09:00-09:30", Status: StatusPending},
		{ID: 3, TimeRange: "09:00-09:30", Status: StatusApproved}, // unassigned, skipped
	}

	perDentist := BuildPerDentistUsage(bookings, 30, 0)
	require.Len(t, perDentist, 2)
	assert.Equal(t, UsageMap{"09:00": 1, "09:30": 1}, perDentist[3])
	assert.Equal(t, UsageMap{"09:00": 1}, perDentist[5])
}

func TestHasOverlappingBooking(t *testing.T) {
	bookings := []BookingRecord{
		{ID: 1, PatientID: 7, Date: monday, TimeRange: "09:00-09:30", Status: StatusApproved},
	}

	overlap, _ := ParseRange("09:15-09:45")
	touch, _ := ParseRange("09:30-10:00")

	assert.True(t, HasOverlappingBooking(7, monday, overlap, bookings, 0))
	assert.False(t, HasOverlappingBooking(7, monday, touch, bookings, 0))

	// Different patient, different day, or excluded booking: no conflict.
	assert.False(t, HasOverlappingBooking(8, monday, overlap, bookings, 0))
	assert.False(t, HasOverlappingBooking(7, monday.AddDate(0, 0, 1), overlap, bookings, 0))
	assert.False(t, HasOverlappingBooking(7, monday, overlap, bookings, 1))
}

func TestHasOverlappingBookingIgnoresUncounted(t *testing.T) {
	bookings := []BookingRecord{
		{ID: 1, PatientID: 7, Date: monday, TimeRange: "09:00-09:30", Status: StatusCancelled},
	}
	candidate, _ := ParseRange("09:00-09:30")
	assert.False(t, HasOverlappingBooking(7, monday, candidate, bookings, 0))
}

func TestAvailableStarts(t *testing.T) {
	grid := CapacityGrid{Starts: []string{"09:00", "09:30", "10:00", "10:30"}, Capacity: 1}
	dentist := workingDentist()
	bookings := []BookingRecord{
		{ID: 1, PatientID: 7, ScheduleID: 1, Date: monday, TimeRange: "09:30-10:00", Status: StatusApproved},
	}

	starts := AvailableStarts(grid, 30, monday, bookings, []DentistAvailability{dentist}, 0)
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, starts)

	// A 60-minute appointment additionally loses 09:00 (its second block is
	// taken) and 10:30 (its second block falls off the grid).
	starts = AvailableStarts(grid, 60, monday, bookings, []DentistAvailability{dentist}, 0)
	assert.Equal(t, []string{"10:00"}, starts)

	// Excluding the booking frees its blocks.
	starts = AvailableStarts(grid, 30, monday, bookings, []DentistAvailability{dentist}, 1)
	assert.Equal(t, grid.Starts, starts)
}

func TestAvailableStartsDentistHours(t *testing.T) {
	grid := CapacityGrid{Starts: []string{"09:00", "09:30", "10:00"}, Capacity: 2}
	dentist := workingDentist()
	dentist.Hours[time.Monday] = &TimeRange{Start: 540, End: 600} // 09:00-10:00

	starts := AvailableStarts(grid, 30, monday, nil, []DentistAvailability{dentist}, 0)
	assert.Equal(t, []string{"09:00", "09:30"}, starts)

	// No dentist counts on an off-day, so nothing is bookable.
	starts = AvailableStarts(grid, 30, monday.AddDate(0, 0, 1), nil, []DentistAvailability{dentist}, 0)
	assert.Empty(t, starts)
}

func TestAvailableStartsSecondDentistCovers(t *testing.T) {
	grid := CapacityGrid{Starts: []string{"09:00", "09:30"}, Capacity: 2}
	busy := workingDentist()
	backup := workingDentist()
	backup.ScheduleID = 2
	bookings := []BookingRecord{
		{ID: 1, PatientID: 7, ScheduleID: 1, Date: monday, TimeRange: "09:00-09:30", Status: StatusApproved},
	}

	// Dentist 1 is occupied at 09:00 but dentist 2 can take it.
	starts := AvailableStarts(grid, 30, monday, bookings, []DentistAvailability{busy, backup}, 0)
	assert.Equal(t, []string{"09:00", "09:30"}, starts)

	// With only the busy dentist, 09:00 is gone even though global capacity remains.
	starts = AvailableStarts(grid, 30, monday, bookings, []DentistAvailability{busy}, 0)
	assert.Equal(t, []string{"09:30"}, starts)
}

func TestFirstFreeDentist(t *testing.T) {
	busy := workingDentist()
	backup := workingDentist()
	backup.ScheduleID = 2
	perDentist := map[int]UsageMap{1: {"09:00": 1}}

	candidate, _ := ParseRange("09:00-09:30")
	d, ok := FirstFreeDentist(candidate, monday, 30, []DentistAvailability{busy, backup}, perDentist)
	require.True(t, ok)
	assert.Equal(t, 2, d.ScheduleID)

	_, ok = FirstFreeDentist(candidate, monday, 30, []DentistAvailability{busy}, perDentist)
	assert.False(t, ok)
}
