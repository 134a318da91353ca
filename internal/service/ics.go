package service

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

const icsProductID = "-//practice-schedule//calendar feed//RU"

// ExportICS формирует VCALENDAR с экземплярами слотов, отсутствий и активными записями за окно дат
func (s *ScheduleService) ExportICS(from, to time.Time) (string, error) {
	snap := s.current.Load()
	occurrences, err := s.occurrences(snap, from, to)
	if err != nil {
		return "", err
	}
	window, err := timerange.NewSpan(from, to)
	if err != nil {
		return "", err
	}

	zones := make(map[string]*time.Location)
	titles := make(map[string]string)
	for _, slot := range snap.slots {
		zones[slot.ID] = s.location(slot.Timezone)
		titles[slot.ID] = slot.Title
	}
	for _, absence := range snap.absences {
		zones[absence.ID] = s.location(absence.Timezone)
		titles[absence.ID] = string(absence.Type)
	}

	stamp := time.Now().UTC()
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, occ := range occurrences {
		loc := zones[occ.TemplateID]
		if loc == nil {
			loc = time.UTC
		}

		if occ.AllDay {
			last := occ.Date
			if !occ.Through.IsZero() {
				last = occ.Through
			}
			event := cal.AddEvent(fmt.Sprintf("%s-%s@practice-schedule", occ.TemplateID, occ.Date.Format("20060102")))
			event.SetDtStampTime(stamp)
			event.SetAllDayStartAt(occ.Date)
			event.SetAllDayEndAt(last.AddDate(0, 0, 1))
			event.SetSummary(summaryFor(occ, titles[occ.TemplateID]))
			continue
		}

		for _, day := range occ.Days() {
			event := cal.AddEvent(fmt.Sprintf("%s-%s@practice-schedule", occ.TemplateID, day.Date.Format("20060102")))
			event.SetDtStampTime(stamp)
			event.SetStartAt(localTime(day.Date, day.Start, loc))
			event.SetEndAt(localTime(day.Date, day.End, loc))
			event.SetSummary(summaryFor(occ, titles[occ.TemplateID]))
		}
	}

	defaultLoc := s.location(s.options.DefaultTimezone)
	for _, appt := range snap.appointments {
		if !appt.IsActive() || !window.Contains(appt.Date) {
			continue
		}
		event := cal.AddEvent(appt.ID + "@practice-schedule")
		event.SetDtStampTime(stamp)
		event.SetStartAt(localTime(appt.Date, appt.StartTime, defaultLoc))
		event.SetEndAt(localTime(appt.Date, appt.EndTime, defaultLoc))
		event.SetSummary("Запись: " + clientLabel(appt))
		event.SetDescription("status: " + string(appt.Status))
	}

	return cal.Serialize(), nil
}

func (s *ScheduleService) location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.logger.WithError(err).WithField("timezone", name).Debug("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// localTime переводит дату и время на часах в момент в поясе loc
func localTime(date time.Time, c timerange.Clock, loc *time.Location) time.Time {
	d := timerange.Day(date)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

func summaryFor(occ models.Occurrence, title string) string {
	if occ.Kind == models.KindAbsence {
		return "Отсутствие: " + title
	}
	if title == "" {
		return "Прием"
	}
	return "Прием: " + title
}

func clientLabel(appt models.Appointment) string {
	if appt.ClientName != "" {
		return appt.ClientName
	}
	return appt.ClientID
}
