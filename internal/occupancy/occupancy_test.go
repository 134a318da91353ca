package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

func TestPerDayEmptyDayIsFree(t *testing.T) {
	d := PerDay(Entry{AvailableHours: 0, BookedHours: 0})
	assert.Equal(t, 0, d.Percentage)
	assert.Equal(t, BandFree, d.Band)
}

func TestPerDayBandBoundaries(t *testing.T) {
	cases := []struct {
		available, booked float64
		percentage        int
		band              Band
	}{
		{1, 9, 90, BandOverloaded},
		{3, 1, 25, BandAvailable},
		{1, 1, 50, BandModerate},
		{1, 3, 75, BandBusy},
		{76, 24, 24, BandFree},
		{51, 49, 49, BandAvailable},
		{26, 74, 74, BandModerate},
		{11, 89, 89, BandBusy},
		{0, 5, 100, BandOverloaded},
	}
	for _, tc := range cases {
		d := PerDay(Entry{AvailableHours: tc.available, BookedHours: tc.booked})
		assert.Equal(t, tc.percentage, d.Percentage, "available=%v booked=%v", tc.available, tc.booked)
		assert.Equal(t, tc.band, d.Band, "percentage=%d", d.Percentage)
	}
}

func TestWeeklyUsesHourSums(t *testing.T) {
	week := [7]Entry{
		{2, 6}, {5, 8}, {1, 9}, {7, 4}, {3, 9}, {5, 2}, {6, 1},
	}

	summary := Weekly(week)
	assert.Equal(t, 39.0, summary.TotalBooked)
	assert.Equal(t, 29.0, summary.TotalAvailable)
	assert.Equal(t, 57, summary.AveragePercentage)

	var sum int
	for _, e := range week {
		sum += PerDay(e).Percentage
	}
	assert.NotEqual(t, 57, sum/7, "weekly value is not the mean of daily percentages")
}

func TestSummarize(t *testing.T) {
	s := Summarize([7]Entry{{1, 9}})
	assert.Equal(t, BandOverloaded, s.PerDay[0].Band)
	assert.Equal(t, BandFree, s.PerDay[6].Band)
	assert.Equal(t, 90, s.Weekly.AveragePercentage)
}

func TestDerive(t *testing.T) {
	monday := timerange.Date(2024, 1, 15)
	occurrences := []models.Occurrence{
		{
			TemplateID: "slot",
			Kind:       models.KindAvailability,
			Date:       monday,
			Through:    monday.AddDate(0, 0, 2),
			StartTime:  timerange.ClockOf(9, 0),
			EndTime:    timerange.ClockOf(17, 0),
		},
		{
			TemplateID: "lunch",
			Kind:       models.KindAbsence,
			Date:       monday,
			StartTime:  timerange.ClockOf(12, 0),
			EndTime:    timerange.ClockOf(13, 0),
		},
		{
			TemplateID: "sick",
			Kind:       models.KindAbsence,
			Date:       monday.AddDate(0, 0, 2),
			AllDay:     true,
		},
		{
			TemplateID: "next-week",
			Kind:       models.KindAvailability,
			Date:       monday.AddDate(0, 0, 7),
			StartTime:  timerange.ClockOf(9, 0),
			EndTime:    timerange.ClockOf(17, 0),
		},
	}
	appointments := []models.Appointment{
		{ID: "a", Date: monday, StartTime: timerange.ClockOf(9, 0), EndTime: timerange.ClockOf(11, 0), Status: models.StatusUpcoming},
		{ID: "b", Date: monday, StartTime: timerange.ClockOf(14, 0), EndTime: timerange.ClockOf(15, 0), Status: models.StatusCancelled},
		{ID: "c", Date: monday.AddDate(0, 0, 1), StartTime: timerange.ClockOf(18, 0), EndTime: timerange.ClockOf(19, 0), Status: models.StatusCompleted},
	}

	entries := Derive(monday, occurrences, appointments)

	// 8ч открыто, 1ч обед, 2ч занято
	assert.Equal(t, Entry{AvailableHours: 5, BookedHours: 2}, entries[0])
	// запись вне слота все равно считается занятым временем
	assert.Equal(t, Entry{AvailableHours: 8, BookedHours: 1}, entries[1])
	assert.Equal(t, Entry{}, entries[2])
	assert.Equal(t, Entry{}, entries[6])
}
