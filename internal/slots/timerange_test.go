package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	r, err := ParseRange("09:00-10:30")
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: 540, End: 630}, r)

	// Seconds are accepted and truncated to minute precision.
	r, err = ParseRange("09:00:00-10:30:45")
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: 540, End: 630}, r)

	// Whitespace around the sides is tolerated.
	r, err = ParseRange(" 08:15 - 08:45 ")
	require.NoError(t, err)
	assert.Equal(t, "08:15-08:45", r.String())
}

func TestParseRangeErrors(t *testing.T) {
	for _, s := range []string{"", "garbage", "09:00", "09:xx-10:00", "25:00-26:00", "09:75-10:00"} {
		_, err := ParseRange(s)
		assert.ErrorIs(t, err, ErrMalformedRange, "input %q", s)
	}
	for _, s := range []string{"10:00-09:00", "09:00-09:00"} {
		_, err := ParseRange(s)
		assert.ErrorIs(t, err, ErrInvalidRange, "input %q", s)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"09:00-09:30", "09:30-10:00", false}, // touching ranges never overlap
		{"09:00-09:30", "09:15-09:45", true},
		{"09:00-10:00", "09:15-09:45", true}, // containment counts
		{"09:00-09:30", "10:00-10:30", false},
		{"09:00-12:00", "08:00-09:01", true},
	}
	for _, tt := range tests {
		a, err := ParseRange(tt.a)
		require.NoError(t, err)
		b, err := ParseRange(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Overlaps(b), "%s vs %s", tt.a, tt.b)
		assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric: %s vs %s", tt.a, tt.b)
	}
}

func TestFitsWithin(t *testing.T) {
	hours := TimeRange{Start: 540, End: 600} // 09:00-10:00
	fits := TimeRange{Start: 540, End: 570}  // 09:00-09:30
	after := TimeRange{Start: 600, End: 630} // 10:00-10:30
	spill := TimeRange{Start: 570, End: 630} // 09:30-10:30

	assert.True(t, fits.FitsWithin(hours))
	assert.False(t, after.FitsWithin(hours))
	// Starting inside the window is not enough; the whole range must fit.
	assert.False(t, spill.FitsWithin(hours))
}

func TestBlocks(t *testing.T) {
	r := TimeRange{Start: 540, End: 600}
	assert.Equal(t, []string{"09:00", "09:30"}, r.Blocks(30))

	// A range not aligned to the block size still stops before End.
	r = TimeRange{Start: 540, End: 610}
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, r.Blocks(30))

	assert.Empty(t, TimeRange{Start: 600, End: 600}.Blocks(30))
	assert.Empty(t, TimeRange{Start: 600, End: 540}.Blocks(30))
}
