package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

// parseDate принимает ДД.ММ.ГГГГ, ДД-ММ-ГГГГ, ДД.ММ, ДД-ММ и ГГГГ-ММ-ДД
func parseDate(dateStr string, now time.Time) (time.Time, error) {
	if t, err := timerange.ParseDate(dateStr); err == nil {
		return t, nil
	}

	// Пробуем разные форматы
	formats := []string{
		"02.01.2006",
		"02-01-2006",
		"02.01",
		"02-01",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			// Если указан только день и месяц, добавляем текущий год
			year := t.Year()
			if !strings.Contains(format, "2006") {
				year = now.Year()
			}
			return timerange.Date(year, t.Month(), t.Day()), nil
		}
	}

	return time.Time{}, fmt.Errorf("неверный формат даты %q. Используйте ДД.ММ.ГГГГ или ДД.ММ", dateStr)
}

// parseSlotArgs разбирает "начало конец ЧЧ:ММ ЧЧ:ММ [повтор] [название]"
func parseSlotArgs(args string, now time.Time) (models.Slot, error) {
	parts := strings.Fields(args)
	if len(parts) < 4 {
		return models.Slot{}, fmt.Errorf("нужно минимум 4 аргумента: начало конец ЧЧ:ММ ЧЧ:ММ")
	}

	start, end, err := parseDates(parts[0], parts[1], now)
	if err != nil {
		return models.Slot{}, err
	}
	from, to, err := parseClocks(parts[2], parts[3])
	if err != nil {
		return models.Slot{}, err
	}

	slot := models.Slot{StartDate: start, EndDate: end, StartTime: from, EndTime: to, Repeat: models.RepeatNever}
	rest := parts[4:]
	if len(rest) > 0 {
		if repeat := models.Repeat(strings.ToLower(rest[0])); repeat.ValidForSlot() {
			slot.Repeat = repeat
			rest = rest[1:]
		}
	}
	slot.Title = strings.Join(rest, " ")
	return slot, nil
}

// parseAbsenceArgs разбирает "тип начало конец [ЧЧ:ММ ЧЧ:ММ] [причина]"; без времени отсутствие на весь день
func parseAbsenceArgs(args string, now time.Time) (models.Absence, error) {
	parts := strings.Fields(args)
	if len(parts) < 3 {
		return models.Absence{}, fmt.Errorf("нужно минимум 3 аргумента: тип начало конец")
	}

	absenceType := models.AbsenceType(strings.ToLower(parts[0]))
	if !absenceType.Valid() {
		return models.Absence{}, fmt.Errorf("неизвестный тип отсутствия %q", parts[0])
	}
	start, end, err := parseDates(parts[1], parts[2], now)
	if err != nil {
		return models.Absence{}, err
	}

	absence := models.Absence{Type: absenceType, StartDate: start, EndDate: end, AllDay: true, Repeat: models.RepeatNever}
	rest := parts[3:]
	if len(rest) >= 2 && strings.Contains(rest[0], ":") {
		from, to, err := parseClocks(rest[0], rest[1])
		if err != nil {
			return models.Absence{}, err
		}
		absence.AllDay = false
		absence.StartTime, absence.EndTime = from, to
		rest = rest[2:]
	}
	absence.Reason = strings.Join(rest, " ")
	return absence, nil
}

// parseOffset - сдвиг для /copyweek, пустой аргумент означает сдвиг по умолчанию
func parseOffset(args string) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(args)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("сдвиг должен быть положительным числом дней")
	}
	return days, nil
}

func parseDates(startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	start, err := parseDate(startStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseClocks(startStr, endStr string) (timerange.Clock, timerange.Clock, error) {
	start, err := timerange.ParseClock(startStr)
	if err != nil {
		return 0, 0, err
	}
	end, err := timerange.ParseClock(endStr)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
