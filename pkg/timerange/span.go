package timerange

import "time"

// DateSpan - включительный диапазон дат [Start, End]
type DateSpan struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewSpan создает диапазон дат; дата окончания не может быть раньше даты начала
func NewSpan(start, end time.Time) (DateSpan, error) {
	s := DateSpan{Start: Day(start), End: Day(end)}
	if err := s.Validate(); err != nil {
		return DateSpan{}, err
	}
	return s, nil
}

func (s DateSpan) Validate() error {
	if s.Start.IsZero() {
		return invalid("start_date", "start date is required")
	}
	if s.End.IsZero() {
		return invalid("end_date", "end date is required")
	}
	if Day(s.End).Before(Day(s.Start)) {
		return invalid("end_date", "%s is before %s", s.End.Format(DateLayout), s.Start.Format(DateLayout))
	}
	return nil
}

func (s DateSpan) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(Day(s.Start)) && !d.After(Day(s.End))
}

// Days возвращает количество дней в диапазоне
func (s DateSpan) Days() int {
	return int(Day(s.End).Sub(Day(s.Start)).Hours()/24) + 1
}

// Dates перечисляет все даты диапазона
func (s DateSpan) Dates() []time.Time {
	dates := make([]time.Time, 0, s.Days())
	for d := Day(s.Start); !d.After(Day(s.End)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Shift сдвигает обе границы на offset дней
func (s DateSpan) Shift(offset int) DateSpan {
	return DateSpan{
		Start: Day(s.Start).AddDate(0, 0, offset),
		End:   Day(s.End).AddDate(0, 0, offset),
	}
}

// Intersect возвращает пересечение двух диапазонов
func (s DateSpan) Intersect(other DateSpan) (DateSpan, bool) {
	start := Day(s.Start)
	if o := Day(other.Start); o.After(start) {
		start = o
	}
	end := Day(s.End)
	if o := Day(other.End); o.Before(end) {
		end = o
	}
	if end.Before(start) {
		return DateSpan{}, false
	}
	return DateSpan{Start: start, End: end}, true
}

// Week возвращает неделю понедельник-воскресенье, в которую попадает дата
func Week(date time.Time) DateSpan {
	d := Day(date)
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return DateSpan{Start: monday, End: monday.AddDate(0, 0, 6)}
}
