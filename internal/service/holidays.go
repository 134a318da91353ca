package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/holidays"
	"practice-schedule/pkg/timerange"
)

const holidayReason = "Праздничные дни"

// ImportHolidays создает отсутствия на весь день по производственному календарю.
// Повторный импорт того же календаря ничего не добавляет.
func (s *ScheduleService) ImportHolidays(ctx context.Context, data []byte) (result MutationResult[[]models.Absence], err error) {
	defer observe("import_holidays", time.Now(), &err)
	dates, err := holidays.Parse(data)
	if err != nil {
		return result, &models.ValidationError{Field: "holidays", Message: err.Error()}
	}

	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	var created []models.Absence
	var affected []models.Appointment
	for _, run := range holidays.Runs(dates) {
		absence := models.Absence{
			ID:        "holiday-" + run.Start.Format(timerange.DateLayout),
			Type:      models.AbsenceTypeOther,
			StartDate: run.Start,
			EndDate:   run.End,
			AllDay:    true,
			Repeat:    models.RepeatNever,
			Reason:    holidayReason,
		}
		if slices.ContainsFunc(snap.absences, func(existing models.Absence) bool { return existing.ID == absence.ID }) {
			continue
		}
		absence.Normalize(s.options.DefaultTimezone)

		_, found, err := s.checkAbsence(absence, snap.appointments)
		if err != nil {
			return result, err
		}
		absence.AffectedAppointments = len(found)
		affected = append(affected, found...)
		created = append(created, absence)
	}

	if len(created) == 0 {
		return MutationResult[[]models.Absence]{Value: created}, nil
	}

	if err := s.absenceRepo.CreateBatch(ctx, created); err != nil {
		s.logger.WithError(err).WithField("count", len(created)).Error("Failed to import holidays")
		return result, &PersistenceError{Op: "import holidays", Err: err}
	}

	next := snap.next()
	next.absences = append(slices.Clone(snap.absences), created...)
	s.commit(next)

	s.logger.WithFields(logrus.Fields{
		"days":     len(dates),
		"periods":  len(created),
		"affected": len(affected),
	}).Info("Holidays imported")

	return MutationResult[[]models.Absence]{Value: created, Affected: affected}, nil
}
