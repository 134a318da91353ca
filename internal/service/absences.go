package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/conflict"
	"practice-schedule/internal/models"
	"practice-schedule/internal/recurrence"
	"practice-schedule/pkg/metrics"
	"practice-schedule/pkg/timerange"
)

// CreateAbsence регистрирует отсутствие и считает затронутые записи
func (s *ScheduleService) CreateAbsence(ctx context.Context, absence models.Absence) (result MutationResult[models.Absence], err error) {
	defer observe("create_absence", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	absence.Normalize(s.options.DefaultTimezone)
	if absence.ID == "" {
		absence.ID = s.newID()
	}
	reports, affected, err := s.checkAbsence(absence, snap.appointments)
	if err != nil {
		s.logger.WithError(err).Warn("Invalid absence rejected")
		return result, err
	}
	absence.AffectedAppointments = len(affected)

	if err := s.absenceRepo.Create(ctx, &absence); err != nil {
		s.logger.WithError(err).WithField("absence_id", absence.ID).Error("Failed to create absence")
		return result, &PersistenceError{Op: "create absence", Err: err}
	}

	next := snap.next()
	next.absences = append(slices.Clone(snap.absences), absence)
	s.commit(next)

	metrics.RecordConflicts("create_absence", len(affected))
	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"type":       absence.Type,
		"start_date": absence.StartDate.Format(timerange.DateLayout),
		"end_date":   absence.EndDate.Format(timerange.DateLayout),
		"affected":   len(affected),
	}).Info("Absence created")

	return MutationResult[models.Absence]{Value: absence, Conflicts: reports, Affected: affected}, nil
}

func (s *ScheduleService) UpdateAbsence(ctx context.Context, absence models.Absence) (result MutationResult[models.Absence], err error) {
	defer observe("update_absence", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.absences, func(existing models.Absence) bool { return existing.ID == absence.ID })
	if idx < 0 {
		return result, ErrNotFound
	}

	absence.Normalize(s.options.DefaultTimezone)
	absence.CreatedAt = snap.absences[idx].CreatedAt
	reports, affected, err := s.checkAbsence(absence, snap.appointments)
	if err != nil {
		return result, err
	}
	absence.AffectedAppointments = len(affected)

	if err := s.absenceRepo.Update(ctx, &absence); err != nil {
		s.logger.WithError(err).WithField("absence_id", absence.ID).Error("Failed to update absence")
		return result, &PersistenceError{Op: "update absence", Err: err}
	}

	next := snap.next()
	next.absences = slices.Clone(snap.absences)
	next.absences[idx] = absence
	s.commit(next)

	s.logger.WithFields(logrus.Fields{
		"absence_id": absence.ID,
		"affected":   len(affected),
	}).Info("Absence updated")

	return MutationResult[models.Absence]{Value: absence, Conflicts: reports, Affected: affected}, nil
}

func (s *ScheduleService) DeleteAbsence(ctx context.Context, id string) (err error) {
	defer observe("delete_absence", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.absences, func(existing models.Absence) bool { return existing.ID == id })
	if idx < 0 {
		return ErrNotFound
	}

	if err := s.absenceRepo.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("absence_id", id).Error("Failed to delete absence")
		return &PersistenceError{Op: "delete absence", Err: err}
	}

	next := snap.next()
	next.absences = slices.Delete(slices.Clone(snap.absences), idx, idx+1)
	s.commit(next)

	s.logger.WithField("absence_id", id).Info("Absence deleted")
	return nil
}

// checkAbsence возвращает конфликты по времени и записи, затронутые по дате.
// Для неповторяющегося отсутствия затронутые записи ищутся по всему диапазону дат.
func (s *ScheduleService) checkAbsence(absence models.Absence, appointments []models.Appointment) ([]conflict.Report, []models.Appointment, error) {
	t, err := recurrence.FromAbsence(absence)
	if err != nil {
		return nil, nil, err
	}
	occurrences, reports, err := s.templateConflicts(t, appointments)
	if err != nil {
		return nil, nil, err
	}

	if absence.Repeat == models.RepeatNever {
		return reports, conflict.FindAffectedAppointments(absence.Span(), appointments), nil
	}
	return reports, conflict.AffectedByOccurrences(occurrences, appointments), nil
}
