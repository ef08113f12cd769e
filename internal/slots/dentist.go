package slots

import "time"

// DentistAvailability is the read-only projection of one dentist schedule
// used for capacity accounting. Workdays and Hours are indexed by
// time.Weekday (Sunday = 0). A nil Hours entry means the dentist is
// available for all clinic hours on that weekday.
type DentistAvailability struct {
	ScheduleID  int
	Code        string
	Active      bool
	ContractEnd *time.Time
	Workdays    [7]bool
	Hours       [7]*TimeRange
}

// IsActiveOn is the single predicate for "counts toward capacity on date":
// the dentist is active, the contract (if bounded) has not ended before the
// date, and the weekday flag is set.
func (d DentistAvailability) IsActiveOn(date time.Time) bool {
	if !d.Active {
		return false
	}
	if d.ContractEnd != nil {
		end := d.ContractEnd
		if end.Year() < date.Year() ||
			(end.Year() == date.Year() && end.YearDay() < date.YearDay()) {
			return false
		}
	}
	return d.Workdays[date.Weekday()]
}

// HoursFor returns the configured window for the weekday, or nil when the
// dentist is unconstrained that day.
func (d DentistAvailability) HoursFor(day time.Weekday) *TimeRange {
	return d.Hours[day]
}

// SlotFitsHours reports whether the whole candidate range falls inside the
// dentist's hours on the given date. An off-day rejects outright regardless
// of any configured window; a nil window accepts any candidate. The entire
// range must fit, not just its start, so an appointment running past the
// dentist's closing time is rejected.
func (d DentistAvailability) SlotFitsHours(date time.Time, candidate TimeRange) bool {
	day := date.Weekday()
	if !d.Workdays[day] {
		return false
	}
	hours := d.Hours[day]
	if hours == nil {
		return true
	}
	return candidate.FitsWithin(*hours)
}
