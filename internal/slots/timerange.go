package slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultBlockMinutes is the discretization unit used for capacity accounting.
const DefaultBlockMinutes = 30

var (
	// ErrMalformedRange means a stored time-range string could not be parsed.
	ErrMalformedRange = errors.New("malformed time range")
	// ErrInvalidRange means a range parsed but its end is not after its start.
	ErrInvalidRange = errors.New("invalid time range")
)

// TimeRange is a half-open interval [Start, End) on a single day,
// expressed in minutes since midnight.
type TimeRange struct {
	Start int
	End   int
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are truncated to minute precision.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	if h < 0 || m < 0 || m > 59 || h*60+m > 24*60 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	return h*60 + m, nil
}

// ParseRange parses "HH:MM-HH:MM" (either side may carry seconds) into a
// TimeRange. Returns ErrMalformedRange when the separator or a side is
// unparseable, ErrInvalidRange when end <= start.
func ParseRange(s string) (TimeRange, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	start, err := ParseClock(from)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return TimeRange{}, err
	}
	if end <= start {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return TimeRange{Start: start, End: end}, nil
}

// Clock formats minutes since midnight as "HH:MM".
func Clock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (r TimeRange) String() string {
	return Clock(r.Start) + "-" + Clock(r.End)
}

// Minutes returns the range duration in minutes.
func (r TimeRange) Minutes() int {
	return r.End - r.Start
}

// Overlaps reports whether the two half-open ranges intersect. Ranges that
// merely touch at an endpoint do not overlap, so back-to-back appointments
// are legal.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && r.End > o.Start
}

// FitsWithin reports whether r lies entirely inside outer.
func (r TimeRange) FitsWithin(outer TimeRange) bool {
	return r.Start >= outer.Start && r.End <= outer.End
}

// Blocks expands the range into the ordered "HH:MM" block-start keys it
// touches: Start, Start+blockMinutes, ... while < End. An empty or inverted
// range yields no blocks.
func (r TimeRange) Blocks(blockMinutes int) []string {
	if blockMinutes <= 0 {
		blockMinutes = DefaultBlockMinutes
	}
	var keys []string
	for t := r.Start; t < r.End; t += blockMinutes {
		keys = append(keys, Clock(t))
	}
	return keys
}
