package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

func slotTemplate(t *testing.T, start, end time.Time, repeat models.Repeat) Template {
	t.Helper()
	tpl, err := FromSlot(models.Slot{
		ID:        "slot-1",
		StartDate: start,
		EndDate:   end,
		StartTime: timerange.ClockOf(9, 0),
		EndTime:   timerange.ClockOf(12, 0),
		Repeat:    repeat,
		Timezone:  "Europe/Berlin",
	})
	require.NoError(t, err)
	return tpl
}

func dates(occ []models.Occurrence) []time.Time {
	out := make([]time.Time, 0, len(occ))
	for _, o := range occ {
		out = append(out, o.Date)
	}
	return out
}

func TestExpandNeverClipsToWindow(t *testing.T) {
	tpl := slotTemplate(t, timerange.Date(2024, 1, 10), timerange.Date(2024, 1, 20), models.RepeatNever)

	occ, err := Expand(tpl, timerange.Date(2024, 1, 15), timerange.Date(2024, 1, 21))
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, timerange.Date(2024, 1, 15), occ[0].Date)
	assert.Equal(t, timerange.Date(2024, 1, 20), occ[0].Through)
	assert.Equal(t, models.KindAvailability, occ[0].Kind)

	occ, err = Expand(tpl, timerange.Date(2024, 2, 1), timerange.Date(2024, 2, 7))
	require.NoError(t, err)
	assert.Empty(t, occ)
}

func TestExpandDaily(t *testing.T) {
	tpl := slotTemplate(t, timerange.Date(2024, 1, 15), timerange.Date(2024, 1, 19), models.RepeatDaily)

	occ, err := Expand(tpl, timerange.Date(2024, 1, 17), timerange.Date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		timerange.Date(2024, 1, 17),
		timerange.Date(2024, 1, 18),
		timerange.Date(2024, 1, 19),
	}, dates(occ))
	for _, o := range occ {
		assert.Equal(t, timerange.ClockOf(9, 0), o.StartTime)
		assert.Equal(t, timerange.ClockOf(12, 0), o.EndTime)
		assert.True(t, o.Through.IsZero())
	}
}

func TestExpandWeeklyIsPeriodic(t *testing.T) {
	// 2024-01-03 - среда
	tpl := slotTemplate(t, timerange.Date(2024, 1, 3), timerange.Date(2024, 6, 30), models.RepeatWeekly)

	windowStart, windowEnd := timerange.Date(2024, 1, 1), timerange.Date(2024, 3, 31)
	occ, err := Expand(tpl, windowStart, windowEnd)
	require.NoError(t, err)
	require.NotEmpty(t, occ)

	byDate := make(map[time.Time]models.Occurrence)
	for _, o := range occ {
		assert.Equal(t, time.Wednesday, o.Date.Weekday())
		byDate[o.Date] = o
	}

	for _, o := range occ {
		next := o.Date.AddDate(0, 0, 7)
		if next.After(windowEnd) || !tpl.Span.Contains(next) {
			continue
		}
		n, ok := byDate[next]
		require.True(t, ok, "missing occurrence on %s", next.Format(timerange.DateLayout))
		assert.Equal(t, o.StartTime, n.StartTime)
		assert.Equal(t, o.EndTime, n.EndTime)
	}
}

func TestExpandMonthlySkipsMissingDays(t *testing.T) {
	tpl := slotTemplate(t, timerange.Date(2024, 1, 31), timerange.Date(2024, 12, 31), models.RepeatMonthly)

	occ, err := Expand(tpl, timerange.Date(2024, 1, 1), timerange.Date(2024, 7, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		timerange.Date(2024, 1, 31),
		timerange.Date(2024, 3, 31),
		timerange.Date(2024, 5, 31),
		timerange.Date(2024, 7, 31),
	}, dates(occ), "February, April and June have no 31st")
}

func TestExpandYearlyAbsenceOnLeapDay(t *testing.T) {
	tpl, err := FromAbsence(models.Absence{
		ID:        "abs-1",
		Type:      models.AbsenceTypePersonal,
		StartDate: timerange.Date(2024, 2, 29),
		EndDate:   timerange.Date(2032, 12, 31),
		AllDay:    true,
		Repeat:    models.RepeatYearly,
		Timezone:  "UTC",
	})
	require.NoError(t, err)

	occ, err := Expand(tpl, timerange.Date(2024, 1, 1), timerange.Date(2032, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		timerange.Date(2024, 2, 29),
		timerange.Date(2028, 2, 29),
		timerange.Date(2032, 2, 29),
	}, dates(occ))
	assert.True(t, occ[0].AllDay)
	assert.Equal(t, timerange.EndOfDay, occ[0].EndTime)
	assert.Equal(t, models.KindAbsence, occ[0].Kind)
}

func TestFromSlotFailsAtConstruction(t *testing.T) {
	_, err := FromSlot(models.Slot{
		ID:        "bad",
		StartDate: timerange.Date(2024, 1, 19),
		EndDate:   timerange.Date(2024, 1, 15),
		StartTime: timerange.ClockOf(9, 0),
		EndTime:   timerange.ClockOf(10, 0),
		Repeat:    models.RepeatWeekly,
		Timezone:  "UTC",
	})
	var rangeErr *timerange.InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestExpandRejectsBackwardWindow(t *testing.T) {
	tpl := slotTemplate(t, timerange.Date(2024, 1, 15), timerange.Date(2024, 1, 19), models.RepeatDaily)
	_, err := Expand(tpl, timerange.Date(2024, 1, 19), timerange.Date(2024, 1, 15))
	var rangeErr *timerange.InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestExpanderCap(t *testing.T) {
	e := NewExpander(nil)
	e.MaxOccurrences = 3
	tpl := slotTemplate(t, timerange.Date(2024, 1, 1), timerange.Date(2024, 12, 31), models.RepeatDaily)

	occ, err := e.Expand(tpl, timerange.Date(2024, 1, 1), timerange.Date(2024, 12, 31))
	require.NoError(t, err)
	assert.Len(t, occ, 3)
}

func TestExpandAllSorted(t *testing.T) {
	morning := slotTemplate(t, timerange.Date(2024, 1, 15), timerange.Date(2024, 1, 16), models.RepeatDaily)
	evening := morning
	evening.ID = "slot-0"
	evening.Start, evening.End = timerange.ClockOf(14, 0), timerange.ClockOf(18, 0)

	occ, err := ExpandAll([]Template{evening, morning}, timerange.Date(2024, 1, 15), timerange.Date(2024, 1, 16))
	require.NoError(t, err)
	require.Len(t, occ, 4)
	assert.Equal(t, "slot-1", occ[0].TemplateID)
	assert.Equal(t, "slot-0", occ[1].TemplateID)
	assert.Equal(t, timerange.Date(2024, 1, 16), occ[2].Date)
}
