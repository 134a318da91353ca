package holidays

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON - производственный календарь в формате xmlcalendar.ru
type CalendarJSON struct {
	Year   int             `json:"year"`
	Months []MonthHolidays `json:"months"`
}

type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// Run - подряд идущие нерабочие дни
type Run struct {
	Start time.Time
	End   time.Time
}

// Parse возвращает отсортированные нерабочие даты (00:00 UTC).
// Сокращенные предпраздничные дни (с "*") рабочие и пропускаются, перенесенные выходные ("+") учитываются.
func Parse(data []byte) ([]time.Time, error) {
	var calendar CalendarJSON
	if err := json.Unmarshal(data, &calendar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holidays JSON: %w", err)
	}
	if calendar.Year < 1900 || calendar.Year > 2200 {
		return nil, fmt.Errorf("invalid holidays year %d", calendar.Year)
	}

	var dates []time.Time
	for _, month := range calendar.Months {
		if month.Month < 1 || month.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", month.Month)
		}
		for _, raw := range strings.Split(month.Days, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" || strings.HasSuffix(raw, "*") {
				continue
			}
			raw = strings.TrimSuffix(raw, "+")

			day, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", raw, month.Month, err)
			}
			date := time.Date(calendar.Year, time.Month(month.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(month.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, month.Month)
			}
			dates = append(dates, date)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Runs склеивает соседние даты в непрерывные периоды
func Runs(dates []time.Time) []Run {
	var runs []Run
	for _, d := range dates {
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if d.Equal(last.End) {
				continue
			}
			if d.Equal(last.End.AddDate(0, 0, 1)) {
				last.End = d
				continue
			}
		}
		runs = append(runs, Run{Start: d, End: d})
	}
	return runs
}
