package slots

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Appointment statuses that occupy capacity. Cancelled, rejected and no-show
// bookings never block a slot.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
	StatusNoShow    = "no_show"
)

// BookingRecord is the minimal projection of an appointment the slot engine
// needs. ScheduleID is zero when no dentist has been assigned yet.
type BookingRecord struct {
	ID         int
	PatientID  int
	ScheduleID int
	Date       time.Time
	TimeRange  string
	Status     string
}

// Counted reports whether the booking occupies capacity.
func (b BookingRecord) Counted() bool {
	switch b.Status {
	case StatusPending, StatusApproved, StatusCompleted:
		return true
	}
	return false
}

// CapacityGrid is the ordered list of candidate block start times offered
// for a date, plus how many simultaneous bookings one block may hold.
type CapacityGrid struct {
	Starts       []string
	Capacity     int
	BlockMinutes int
}

func (g CapacityGrid) blockMinutes() int {
	if g.BlockMinutes <= 0 {
		return DefaultBlockMinutes
	}
	return g.BlockMinutes
}

// UsageMap counts occupancy per "HH:MM" block start. Built fresh per query,
// never persisted.
type UsageMap map[string]int

// BuildGlobalUsage expands every counted booking into block increments over
// the grid. Blocks outside the grid are ignored. A booking whose range does
// not parse is skipped with a warning so one bad row cannot take down an
// availability query. Pass excludeID > 0 to leave one booking out, e.g. the
// booking being rescheduled.
func BuildGlobalUsage(grid CapacityGrid, bookings []BookingRecord, excludeID int) UsageMap {
	usage := make(UsageMap, len(grid.Starts))
	for _, s := range grid.Starts {
		usage[s] = 0
	}
	for _, b := range bookings {
		if !b.Counted() || (excludeID > 0 && b.ID == excludeID) {
			continue
		}
		r, err := ParseRange(b.TimeRange)
		if err != nil {
			log.Warnf("skipping booking %d with bad time range %q: %v", b.ID, b.TimeRange, err)
			continue
		}
		for _, key := range r.Blocks(grid.blockMinutes()) {
			if _, ok := usage[key]; ok {
				usage[key]++
			}
		}
	}
	return usage
}

// BuildPerDentistUsage is the same traversal keyed by assigned dentist
// schedule. Bookings without an assigned dentist are skipped. Block keys are
// created on demand: this map is only consulted for dentists that actually
// have bookings.
func BuildPerDentistUsage(bookings []BookingRecord, blockMinutes, excludeID int) map[int]UsageMap {
	perDentist := make(map[int]UsageMap)
	for _, b := range bookings {
		if !b.Counted() || b.ScheduleID == 0 || (excludeID > 0 && b.ID == excludeID) {
			continue
		}
		r, err := ParseRange(b.TimeRange)
		if err != nil {
			log.Warnf("skipping booking %d with bad time range %q: %v", b.ID, b.TimeRange, err)
			continue
		}
		usage := perDentist[b.ScheduleID]
		if usage == nil {
			usage = make(UsageMap)
			perDentist[b.ScheduleID] = usage
		}
		for _, key := range r.Blocks(blockMinutes) {
			usage[key]++
		}
	}
	return perDentist
}

// HasOverlappingBooking reports whether the patient already holds a counted
// booking on the date whose range overlaps the candidate. Touching ranges do
// not overlap, so a patient may book back-to-back visits.
func HasOverlappingBooking(patientID int, date time.Time, candidate TimeRange, bookings []BookingRecord, excludeID int) bool {
	for _, b := range bookings {
		if b.PatientID != patientID || !b.Counted() || (excludeID > 0 && b.ID == excludeID) {
			continue
		}
		if !sameDay(b.Date, date) {
			continue
		}
		r, err := ParseRange(b.TimeRange)
		if err != nil {
			continue
		}
		if r.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// AvailableStarts walks the grid and returns the start times where an
// appointment of the requested duration could still be booked: every block
// the candidate range touches must exist in the grid with global usage below
// capacity, and at least one dentist from the roster must count on the date,
// have the range inside their hours, and have every touched block free in
// their own schedule. Callers that honor a preferred dentist pass a roster
// of one.
func AvailableStarts(grid CapacityGrid, durationMinutes int, date time.Time, bookings []BookingRecord, dentists []DentistAvailability, excludeID int) []string {
	if durationMinutes <= 0 || len(grid.Starts) == 0 {
		return nil
	}

	usage := BuildGlobalUsage(grid, bookings, excludeID)
	perDentist := BuildPerDentistUsage(bookings, grid.blockMinutes(), excludeID)

	var starts []string
	for _, s := range grid.Starts {
		begin, err := ParseClock(s)
		if err != nil {
			log.Warnf("skipping bad grid start %q: %v", s, err)
			continue
		}
		candidate := TimeRange{Start: begin, End: begin + durationMinutes}
		if !blocksFit(candidate, grid, usage) {
			continue
		}
		if !anyDentistFree(candidate, date, grid.blockMinutes(), dentists, perDentist) {
			continue
		}
		starts = append(starts, s)
	}
	return starts
}

func blocksFit(candidate TimeRange, grid CapacityGrid, usage UsageMap) bool {
	for _, key := range candidate.Blocks(grid.blockMinutes()) {
		count, ok := usage[key]
		if !ok || count >= grid.Capacity {
			return false
		}
	}
	return true
}

func anyDentistFree(candidate TimeRange, date time.Time, blockMinutes int, dentists []DentistAvailability, perDentist map[int]UsageMap) bool {
	for _, d := range dentists {
		if dentistFree(d, candidate, date, blockMinutes, perDentist) {
			return true
		}
	}
	return false
}

func dentistFree(d DentistAvailability, candidate TimeRange, date time.Time, blockMinutes int, perDentist map[int]UsageMap) bool {
	if !d.IsActiveOn(date) || !d.SlotFitsHours(date, candidate) {
		return false
	}
	// A dentist sees one patient per block.
	for _, key := range candidate.Blocks(blockMinutes) {
		if perDentist[d.ScheduleID][key] > 0 {
			return false
		}
	}
	return true
}

// Placement answers whether one candidate range can still be booked: every
// touched block must sit inside the grid with global usage below capacity,
// and some roster dentist must be able to take it. The chosen dentist is
// returned so the booking can be assigned.
func Placement(grid CapacityGrid, candidate TimeRange, date time.Time, bookings []BookingRecord, dentists []DentistAvailability, excludeID int) (DentistAvailability, bool) {
	usage := BuildGlobalUsage(grid, bookings, excludeID)
	if !blocksFit(candidate, grid, usage) {
		return DentistAvailability{}, false
	}
	perDentist := BuildPerDentistUsage(bookings, grid.blockMinutes(), excludeID)
	return FirstFreeDentist(candidate, date, grid.blockMinutes(), dentists, perDentist)
}

// FirstFreeDentist returns the first roster dentist able to take the
// candidate range, for assigning bookings that did not name a dentist.
func FirstFreeDentist(candidate TimeRange, date time.Time, blockMinutes int, dentists []DentistAvailability, perDentist map[int]UsageMap) (DentistAvailability, bool) {
	for _, d := range dentists {
		if dentistFree(d, candidate, date, blockMinutes, perDentist) {
			return d, true
		}
	}
	return DentistAvailability{}, false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
