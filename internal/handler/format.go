package handler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"practice-schedule/internal/conflict"
	"practice-schedule/internal/models"
	"practice-schedule/internal/occupancy"
	"practice-schedule/internal/service"
	"practice-schedule/pkg/timerange"
)

const displayDate = "02.01.2006"

var weekdayNames = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var absenceLabels = map[models.AbsenceType]string{
	models.AbsenceTypeVacation:   "🏖️ Отпуск",
	models.AbsenceTypeSick:       "🤒 Больничный",
	models.AbsenceTypePersonal:   "🏠 Личное",
	models.AbsenceTypeTraining:   "📚 Обучение",
	models.AbsenceTypeConference: "🎤 Конференция",
	models.AbsenceTypeOther:      "📌 Другое",
}

var repeatLabels = map[models.Repeat]string{
	models.RepeatNever:   "без повтора",
	models.RepeatDaily:   "ежедневно",
	models.RepeatWeekly:  "еженедельно",
	models.RepeatMonthly: "ежемесячно",
	models.RepeatYearly:  "ежегодно",
}

var bandEmoji = map[occupancy.Band]string{
	occupancy.BandFree:       "⚪",
	occupancy.BandAvailable:  "🟢",
	occupancy.BandModerate:   "🟡",
	occupancy.BandBusy:       "🟠",
	occupancy.BandOverloaded: "🔴",
}

func formatDay(t time.Time) string {
	return fmt.Sprintf("%s %s", weekdayNames[t.Weekday()], t.Format(displayDate))
}

func formatPeriod(start, end time.Time) string {
	if timerange.SameDate(start, end) {
		return start.Format(displayDate)
	}
	return start.Format(displayDate) + " - " + end.Format(displayDate)
}

func formatSlot(s models.Slot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕘 %s, %s-%s", formatPeriod(s.StartDate, s.EndDate), s.StartTime, s.EndTime)
	fmt.Fprintf(&b, " (%s)", repeatLabels[s.Repeat])
	if s.Title != "" {
		fmt.Fprintf(&b, " %s", s.Title)
	}
	fmt.Fprintf(&b, "\n   ID: %s", s.ID)
	return b.String()
}

func formatAbsence(a models.Absence) string {
	var b strings.Builder
	label, ok := absenceLabels[a.Type]
	if !ok {
		label = string(a.Type)
	}
	fmt.Fprintf(&b, "%s: %s", label, formatPeriod(a.StartDate, a.EndDate))
	if a.AllDay {
		b.WriteString(", весь день")
	} else {
		fmt.Fprintf(&b, ", %s-%s", a.StartTime, a.EndTime)
	}
	if a.Repeat != models.RepeatNever {
		fmt.Fprintf(&b, " (%s)", repeatLabels[a.Repeat])
	}
	if a.Reason != "" {
		fmt.Fprintf(&b, "\n   %s", a.Reason)
	}
	if a.AffectedAppointments > 0 {
		fmt.Fprintf(&b, "\n   ⚠️ Затронуто записей: %d", a.AffectedAppointments)
	}
	fmt.Fprintf(&b, "\n   ID: %s", a.ID)
	return b.String()
}

func formatAppointment(a models.Appointment) string {
	client := a.ClientName
	if client == "" {
		client = a.ClientID
	}
	line := fmt.Sprintf("👤 %s %s-%s %s", formatDay(a.Date), a.StartTime, a.EndTime, client)
	if a.Status != models.StatusUpcoming {
		line += fmt.Sprintf(" [%s]", a.Status)
	}
	return line
}

// formatConflicts - предупреждения о пересечениях, изменение при этом уже сохранено
func formatConflicts(reports []conflict.Report) string {
	if len(reports) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n⚠️ Пересечения с записями: %d", conflict.Count(reports))
	for _, r := range reports {
		for _, appt := range r.Conflicts {
			fmt.Fprintf(&b, "\n• %s", formatAppointment(appt))
		}
	}
	return b.String()
}

func formatAffected(appts []models.Appointment) string {
	if len(appts) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n📋 Записи в период отсутствия: %d", len(appts))
	for _, appt := range appts {
		fmt.Fprintf(&b, "\n• %s", formatAppointment(appt))
	}
	return b.String()
}

func formatOccupancy(weekStart time.Time, summary occupancy.WeekOccupancySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Загрузка недели %s\n", formatPeriod(weekStart, weekStart.AddDate(0, 0, 6)))
	for i, day := range summary.PerDay {
		fmt.Fprintf(&b, "\n%s %s: %d%%", bandEmoji[day.Band], formatDay(weekStart.AddDate(0, 0, i)), day.Percentage)
	}
	fmt.Fprintf(&b, "\n\nИтого: %d%% (занято %.1f ч, свободно %.1f ч)",
		summary.Weekly.AveragePercentage, summary.Weekly.TotalBooked, summary.Weekly.TotalAvailable)
	return b.String()
}

// formatAgenda - расписание по дням видимого окна
func formatAgenda(view service.CalendarView, occurrences []models.Occurrence, appointments []models.Appointment) string {
	window := view.Window()
	byDay := make(map[string][]string)

	for _, occ := range occurrences {
		for _, day := range occ.Days() {
			if !window.Contains(day.Date) {
				continue
			}
			switch {
			case occ.Kind == models.KindAbsence && occ.AllDay:
				byDay[dateKey(day.Date)] = append(byDay[dateKey(day.Date)], "🚫 весь день недоступен")
			case occ.Kind == models.KindAbsence:
				byDay[dateKey(day.Date)] = append(byDay[dateKey(day.Date)], fmt.Sprintf("🚫 %s-%s недоступен", day.Start, day.End))
			default:
				byDay[dateKey(day.Date)] = append(byDay[dateKey(day.Date)], fmt.Sprintf("🕘 %s-%s прием", day.Start, day.End))
			}
		}
	}
	for _, appt := range appointments {
		if !appt.IsActive() || !window.Contains(appt.Date) {
			continue
		}
		client := appt.ClientName
		if client == "" {
			client = appt.ClientID
		}
		byDay[dateKey(appt.Date)] = append(byDay[dateKey(appt.Date)], fmt.Sprintf("👤 %s-%s %s", appt.StartTime, appt.EndTime, client))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s", formatPeriod(window.Start, window.End))
	if len(byDay) == 0 {
		b.WriteString("\n\nНичего не запланировано.")
		return b.String()
	}
	for _, date := range window.Dates() {
		lines, ok := byDay[dateKey(date)]
		if !ok {
			continue
		}
		sort.Strings(lines)
		fmt.Fprintf(&b, "\n\n%s", formatDay(date))
		for _, line := range lines {
			fmt.Fprintf(&b, "\n  %s", line)
		}
	}
	return b.String()
}

func dateKey(t time.Time) string {
	return t.Format(timerange.DateLayout)
}

// userError - текст ошибки для ответа в чат
func userError(err error) string {
	var rangeErr *timerange.InvalidRangeError
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, service.ErrMutationInFlight):
		return "⏳ Предыдущее изменение еще сохраняется, попробуйте еще раз."
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено."
	case errors.As(err, &rangeErr):
		return "❌ " + rangeErr.Error()
	case errors.As(err, &validationErr):
		return "❌ " + validationErr.Message
	default:
		return "❌ Не удалось сохранить изменения, попробуйте позже."
	}
}
