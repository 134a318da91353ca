package occupancy

import (
	"time"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

type dayMinutes [timerange.MinutesPerDay]bool

func (d *dayMinutes) mark(start, end timerange.Clock, value bool) {
	if start < 0 {
		start = 0
	}
	if end > timerange.EndOfDay {
		end = timerange.EndOfDay
	}
	for m := start; m < end; m++ {
		d[m] = value
	}
}

// Derive собирает часы недели, начинающейся с weekStart (понедельник), из экземпляров и записей.
// Открытое время - слоты за вычетом отсутствий; занятое - неотмененные записи;
// свободное - открытое за вычетом занятого.
func Derive(weekStart time.Time, occurrences []models.Occurrence, appointments []models.Appointment) [7]Entry {
	start := timerange.Day(weekStart)

	var open, blocked, booked [7]dayMinutes
	index := func(date time.Time) int {
		i := int(timerange.Day(date).Sub(start).Hours() / 24)
		if i < 0 || i > 6 {
			return -1
		}
		return i
	}

	for _, occ := range occurrences {
		for _, day := range occ.Days() {
			i := index(day.Date)
			if i < 0 {
				continue
			}
			switch occ.Kind {
			case models.KindAvailability:
				open[i].mark(day.Start, day.End, true)
			case models.KindAbsence:
				if occ.AllDay {
					blocked[i].mark(0, timerange.EndOfDay, true)
				} else {
					blocked[i].mark(day.Start, day.End, true)
				}
			}
		}
	}

	for idx := range appointments {
		appt := &appointments[idx]
		if !appt.IsActive() {
			continue
		}
		i := index(appt.Date)
		if i < 0 {
			continue
		}
		booked[i].mark(appt.StartTime, appt.EndTime, true)
	}

	var entries [7]Entry
	for i := 0; i < 7; i++ {
		var available, busy int
		for m := 0; m < timerange.MinutesPerDay; m++ {
			switch {
			case booked[i][m]:
				busy++
			case open[i][m] && !blocked[i][m]:
				available++
			}
		}
		entries[i] = Entry{
			AvailableHours: float64(available) / 60,
			BookedHours:    float64(busy) / 60,
		}
	}
	return entries
}
