package timerange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, date, start, end string) Range {
	t.Helper()
	r, err := Parse(date, start, end)
	require.NoError(t, err)
	return r
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, ClockOf(9, 30), c)
	assert.Equal(t, "09:30", c.String())

	end, err := ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, EndOfDay, end)

	for _, bad := range []string{"", "9", "25:00", "10:60", "ab:cd", "24:01", "-1:00"} {
		_, err := ParseClock(bad)
		var rangeErr *InvalidRangeError
		assert.True(t, errors.As(err, &rangeErr), "expected InvalidRangeError for %q", bad)
	}
}

func TestNewRejectsMalformedRanges(t *testing.T) {
	date := Date(2024, time.January, 15)

	_, err := New(date, ClockOf(10, 0), ClockOf(10, 0))
	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "end_time", rangeErr.Field)

	_, err = New(date, ClockOf(22, 0), ClockOf(2, 0))
	assert.ErrorAs(t, err, &rangeErr, "cross-midnight ranges are rejected")

	_, err = New(time.Time{}, ClockOf(9, 0), ClockOf(10, 0))
	assert.ErrorAs(t, err, &rangeErr)

	_, err = New(date, EndOfDay, EndOfDay)
	assert.ErrorAs(t, err, &rangeErr)

	_, err = Parse("2024-02-30", "09:00", "10:00")
	assert.ErrorAs(t, err, &rangeErr)
}

func TestOverlapsSymmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b Range
		want bool
	}{
		{"nested", mustRange(t, "2024-01-15", "09:00", "12:00"), mustRange(t, "2024-01-15", "10:00", "11:00"), true},
		{"partial", mustRange(t, "2024-01-15", "09:00", "10:30"), mustRange(t, "2024-01-15", "10:00", "11:00"), true},
		{"back to back", mustRange(t, "2024-01-15", "09:00", "10:00"), mustRange(t, "2024-01-15", "10:00", "11:00"), false},
		{"disjoint", mustRange(t, "2024-01-15", "08:00", "09:00"), mustRange(t, "2024-01-15", "13:00", "14:00"), false},
		{"other date", mustRange(t, "2024-01-15", "09:00", "12:00"), mustRange(t, "2024-01-16", "09:00", "12:00"), false},
		{"identical", mustRange(t, "2024-01-15", "09:00", "12:00"), mustRange(t, "2024-01-15", "09:00", "12:00"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, Overlaps(tc.a, tc.b), Overlaps(tc.b, tc.a))
		})
	}
}

func TestContains(t *testing.T) {
	r := mustRange(t, "2024-01-15", "09:00", "10:00")
	day := Date(2024, time.January, 15)

	assert.True(t, Contains(r, day, ClockOf(9, 0)))
	assert.True(t, Contains(r, day, ClockOf(9, 59)))
	assert.False(t, Contains(r, day, ClockOf(10, 0)))
	assert.False(t, Contains(r, day.AddDate(0, 0, 1), ClockOf(9, 30)))
}

func TestDurationMinutes(t *testing.T) {
	d, err := DurationMinutes(mustRange(t, "2024-01-15", "09:15", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, 105, d)

	d, err = DurationMinutes(Range{Date: Date(2024, 1, 15), Start: ClockOf(11, 0), End: ClockOf(9, 0)})
	var rangeErr *InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
	assert.Zero(t, d)
}

func TestDateSpan(t *testing.T) {
	span, err := NewSpan(Date(2024, 1, 15), Date(2024, 1, 19))
	require.NoError(t, err)
	assert.Equal(t, 5, span.Days())
	assert.Len(t, span.Dates(), 5)
	assert.True(t, span.Contains(Date(2024, 1, 19)))
	assert.False(t, span.Contains(Date(2024, 1, 20)))

	shifted := span.Shift(7)
	assert.Equal(t, Date(2024, 1, 22), shifted.Start)
	assert.Equal(t, Date(2024, 1, 26), shifted.End)

	clip, ok := span.Intersect(DateSpan{Start: Date(2024, 1, 18), End: Date(2024, 1, 31)})
	require.True(t, ok)
	assert.Equal(t, Date(2024, 1, 18), clip.Start)
	assert.Equal(t, Date(2024, 1, 19), clip.End)

	_, ok = span.Intersect(DateSpan{Start: Date(2024, 2, 1), End: Date(2024, 2, 2)})
	assert.False(t, ok)

	_, err = NewSpan(Date(2024, 1, 19), Date(2024, 1, 15))
	var rangeErr *InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestWeekStartsOnMonday(t *testing.T) {
	week := Week(Date(2024, 1, 17)) // среда
	assert.Equal(t, Date(2024, 1, 15), week.Start)
	assert.Equal(t, Date(2024, 1, 21), week.End)

	sunday := Week(Date(2024, 1, 21))
	assert.Equal(t, Date(2024, 1, 15), sunday.Start)
}
