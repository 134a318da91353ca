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

// CreateAppointment добавляет запись клиента, пришедшую из модуля бронирования
func (s *ScheduleService) CreateAppointment(ctx context.Context, appt models.Appointment) (result MutationResult[models.Appointment], err error) {
	defer observe("create_appointment", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	appt.Normalize()
	if appt.ID == "" {
		appt.ID = s.newID()
	}
	if err := appt.Validate(); err != nil {
		return result, err
	}
	if slices.ContainsFunc(snap.appointments, func(existing models.Appointment) bool { return existing.ID == appt.ID }) {
		return result, &models.ValidationError{Field: "id", Message: "запись с таким идентификатором уже существует"}
	}

	var reports []conflict.Report
	if appt.IsActive() {
		if found := conflict.FindConflicts(appt.Range(), snap.appointments, appt.ID); len(found) > 0 {
			reports = append(reports, conflict.Report{Candidate: appt.Range(), Conflicts: found})
		}
	}

	if err := s.appointmentRepo.Create(ctx, &appt); err != nil {
		s.logger.WithError(err).WithField("appointment_id", appt.ID).Error("Failed to create appointment")
		return result, &PersistenceError{Op: "create appointment", Err: err}
	}

	next := snap.next()
	next.appointments = append(slices.Clone(snap.appointments), appt)
	next.absences = s.withAffectedCounts(next.absences, next.appointments)
	s.commit(next)

	metrics.RecordConflicts("create_appointment", conflict.Count(reports))
	s.logger.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"client_id":      appt.ClientID,
		"date":           appt.Date.Format(timerange.DateLayout),
		"conflicts":      len(reports),
	}).Info("Appointment created")

	return MutationResult[models.Appointment]{Value: appt, Conflicts: reports}, nil
}

// MoveAppointment переносит запись на новую дату и время (перетаскивание в календаре).
// Сама запись в конфликтах не участвует.
func (s *ScheduleService) MoveAppointment(ctx context.Context, id string, to timerange.Range) (result MutationResult[models.Appointment], err error) {
	defer observe("move_appointment", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.appointments, func(existing models.Appointment) bool { return existing.ID == id })
	if idx < 0 {
		return result, ErrNotFound
	}

	moved := snap.appointments[idx]
	moved.Date = timerange.Day(to.Date)
	moved.StartTime = to.Start
	moved.EndTime = to.End
	if err := moved.Validate(); err != nil {
		return result, err
	}

	var reports []conflict.Report
	if found := conflict.FindConflicts(moved.Range(), snap.appointments, id); len(found) > 0 {
		reports = append(reports, conflict.Report{Candidate: moved.Range(), Conflicts: found})
	}

	if err := s.appointmentRepo.Update(ctx, &moved); err != nil {
		s.logger.WithError(err).WithField("appointment_id", id).Error("Failed to move appointment")
		return result, &PersistenceError{Op: "move appointment", Err: err}
	}

	next := snap.next()
	next.appointments = slices.Clone(snap.appointments)
	next.appointments[idx] = moved
	next.absences = s.withAffectedCounts(next.absences, next.appointments)
	s.commit(next)

	metrics.RecordConflicts("move_appointment", conflict.Count(reports))
	s.logger.WithFields(logrus.Fields{
		"appointment_id": id,
		"date":           moved.Date.Format(timerange.DateLayout),
		"start":          moved.StartTime.String(),
		"conflicts":      len(reports),
	}).Info("Appointment moved")

	return MutationResult[models.Appointment]{Value: moved, Conflicts: reports}, nil
}

// withAffectedCounts пересчитывает производное число затронутых записей у отсутствий
func (s *ScheduleService) withAffectedCounts(absences []models.Absence, appointments []models.Appointment) []models.Absence {
	out := slices.Clone(absences)
	for i := range out {
		if out[i].Repeat == models.RepeatNever || out[i].Repeat == "" {
			out[i].AffectedAppointments = len(conflict.FindAffectedAppointments(out[i].Span(), appointments))
			continue
		}
		t, err := recurrence.FromAbsence(out[i])
		if err != nil {
			continue
		}
		from, to := s.horizon(t.Span)
		occurrences, err := s.expander.Expand(t, from, to)
		if err != nil {
			continue
		}
		out[i].AffectedAppointments = len(conflict.AffectedByOccurrences(occurrences, appointments))
	}
	return out
}
