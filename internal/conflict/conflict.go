// Package conflict находит записи клиентов, пересекающиеся со слотами и отсутствиями.
//
// Результат носит рекомендательный характер: конфликт показывается
// пользователю как предупреждение, и он может подтвердить операцию.
package conflict

import (
	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

// Report - предупреждение о конфликте для одного диапазона-кандидата
type Report struct {
	Candidate timerange.Range      `json:"candidate"`
	Conflicts []models.Appointment `json:"conflicts"`
}

// FindConflicts возвращает неотмененные записи, пересекающиеся с кандидатом.
// Порядок входного списка сохраняется, запись excludeID пропускается.
func FindConflicts(candidate timerange.Range, appointments []models.Appointment, excludeID string) []models.Appointment {
	var out []models.Appointment
	for i := range appointments {
		appt := &appointments[i]
		if !appt.IsActive() {
			continue
		}
		if excludeID != "" && appt.ID == excludeID {
			continue
		}
		if timerange.Overlaps(candidate, appt.Range()) {
			out = append(out, *appt)
		}
	}
	return out
}

// FindAffectedAppointments сопоставляет записи с периодом отсутствия только по дате,
// время дня не учитывается даже для отсутствия не на весь день.
func FindAffectedAppointments(span timerange.DateSpan, appointments []models.Appointment) []models.Appointment {
	var out []models.Appointment
	for i := range appointments {
		appt := &appointments[i]
		if !appt.IsActive() {
			continue
		}
		if span.Contains(appt.Date) {
			out = append(out, *appt)
		}
	}
	return out
}

// Reports проверяет каждый день каждого экземпляра и возвращает отчеты только по конфликтующим
func Reports(occurrences []models.Occurrence, appointments []models.Appointment, excludeID string) []Report {
	var reports []Report
	for _, occ := range occurrences {
		for _, day := range occ.Days() {
			if occ.AllDay {
				day.Start, day.End = 0, timerange.EndOfDay
			}
			if found := FindConflicts(day, appointments, excludeID); len(found) > 0 {
				reports = append(reports, Report{Candidate: day, Conflicts: found})
			}
		}
	}
	return reports
}

// AffectedByOccurrences собирает записи, попадающие в даты экземпляров отсутствия, без повторов
func AffectedByOccurrences(occurrences []models.Occurrence, appointments []models.Appointment) []models.Appointment {
	seen := make(map[string]bool)
	var out []models.Appointment
	for _, occ := range occurrences {
		span := timerange.DateSpan{Start: occ.Date, End: occ.Date}
		if !occ.Through.IsZero() && occ.Through.After(occ.Date) {
			span.End = occ.Through
		}
		for _, appt := range FindAffectedAppointments(span, appointments) {
			if seen[appt.ID] {
				continue
			}
			seen[appt.ID] = true
			out = append(out, appt)
		}
	}
	return out
}

// Count - число записей во всех отчетах без повторов
func Count(reports []Report) int {
	seen := make(map[string]bool)
	for _, r := range reports {
		for _, appt := range r.Conflicts {
			seen[appt.ID] = true
		}
	}
	return len(seen)
}
