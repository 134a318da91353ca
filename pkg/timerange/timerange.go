package timerange

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	MinutesPerDay = 24 * 60
	// EndOfDay допустим только как время окончания ("24:00")
	EndOfDay Clock = MinutesPerDay
)

// InvalidRangeError - некорректный диапазон (начало >= конца, кривая дата или время)
type InvalidRangeError struct {
	Field  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Field == "" {
		return "invalid range: " + e.Reason
	}
	return fmt.Sprintf("invalid range: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &InvalidRangeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Clock - локальное время суток в минутах от полуночи
type Clock int

// ClockOf собирает время из часов и минут
func ClockOf(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock парсит время в формате HH:MM
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, invalid("time", "%q is not HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, invalid("time", "%q is not HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, invalid("time", "%q has invalid minutes", s)
	}

	c := ClockOf(hour, minute)
	if hour < 0 || !c.Valid() {
		return 0, invalid("time", "%q is out of day bounds", s)
	}
	return c, nil
}

func (c Clock) Valid() bool {
	return c >= 0 && c <= EndOfDay
}

func (c Clock) Hour() int {
	return int(c) / 60
}

func (c Clock) Minute() int {
	return int(c) % 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Day нормализует дату до полуночи UTC, часовой пояс хранится отдельно как строка
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date собирает календарную дату
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату в формате 2006-01-02
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("date", "%q is not YYYY-MM-DD", s)
	}
	return t, nil
}

// Range - промежуток [Start, End) внутри одной календарной даты
type Range struct {
	Date  time.Time `json:"date"`
	Start Clock     `json:"start_time"`
	End   Clock     `json:"end_time"`
}

// New создает диапазон и сразу проверяет его
func New(date time.Time, start, end Clock) (Range, error) {
	r := Range{Date: Day(date), Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Parse создает диапазон из строк даты и времени
func Parse(date, start, end string) (Range, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Range{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return New(d, s, e)
}

// Validate проверяет инварианты диапазона. Переход через полночь не поддерживается.
func (r Range) Validate() error {
	if r.Date.IsZero() {
		return invalid("date", "date is required")
	}
	if err := ValidateClocks(r.Start, r.End); err != nil {
		return err
	}
	return nil
}

// ValidateClocks проверяет пару времени начала и окончания
func ValidateClocks(start, end Clock) error {
	if !start.Valid() || start == EndOfDay {
		return invalid("start_time", "%d is outside the day", int(start))
	}
	if !end.Valid() {
		return invalid("end_time", "%d is outside the day", int(end))
	}
	if start >= end {
		return invalid("end_time", "start %s must be before end %s", start, end)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("%s %s-%s", r.Date.Format(DateLayout), r.Start, r.End)
}

// Overlaps - пересечение полуинтервалов в пределах одной даты
func Overlaps(a, b Range) bool {
	if !SameDate(a.Date, b.Date) {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// Contains проверяет, попадает ли момент (дата + время) в диапазон
func Contains(r Range, date time.Time, at Clock) bool {
	return SameDate(r.Date, date) && r.Start <= at && at < r.End
}

// DurationMinutes возвращает длительность диапазона в минутах
func DurationMinutes(r Range) (int, error) {
	if err := ValidateClocks(r.Start, r.End); err != nil {
		return 0, err
	}
	return int(r.End - r.Start), nil
}

// SameDate сравнивает только календарную дату
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
