package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

const DefaultMaxOccurrences = 5000

// Template - повторяющийся шаблон (слот или отсутствие), готовый к развороту
type Template struct {
	ID     string
	Kind   models.OccurrenceKind
	Span   timerange.DateSpan
	Start  timerange.Clock
	End    timerange.Clock
	AllDay bool
	Repeat models.Repeat
}

// FromSlot строит шаблон из слота; некорректный слот отклоняется сразу
func FromSlot(s models.Slot) (Template, error) {
	if err := s.Validate(); err != nil {
		return Template{}, err
	}
	return Template{
		ID:     s.ID,
		Kind:   models.KindAvailability,
		Span:   timerange.DateSpan{Start: timerange.Day(s.StartDate), End: timerange.Day(s.EndDate)},
		Start:  s.StartTime,
		End:    s.EndTime,
		Repeat: s.Repeat,
	}, nil
}

// FromAbsence строит шаблон из периода отсутствия
func FromAbsence(a models.Absence) (Template, error) {
	if err := a.Validate(); err != nil {
		return Template{}, err
	}
	start, end := a.Times()
	return Template{
		ID:     a.ID,
		Kind:   models.KindAbsence,
		Span:   timerange.DateSpan{Start: timerange.Day(a.StartDate), End: timerange.Day(a.EndDate)},
		Start:  start,
		End:    end,
		AllDay: a.AllDay,
		Repeat: a.Repeat,
	}, nil
}

// Expander разворачивает шаблоны в конкретные экземпляры в окне дат
type Expander struct {
	// MaxOccurrences ограничивает число экземпляров одного шаблона
	MaxOccurrences int
	Logger         *logrus.Logger
}

// NewExpander создает разворачиватель с ограничением по умолчанию
func NewExpander(logger *logrus.Logger) *Expander {
	if logger == nil {
		logger = logrus.New()
	}
	return &Expander{MaxOccurrences: DefaultMaxOccurrences, Logger: logger}
}

var defaultExpander = NewExpander(nil)

// Expand разворачивает один шаблон в окне [windowStart, windowEnd] (даты включительно)
func Expand(t Template, windowStart, windowEnd time.Time) ([]models.Occurrence, error) {
	return defaultExpander.Expand(t, windowStart, windowEnd)
}

// ExpandAll разворачивает набор шаблонов и сортирует результат
func ExpandAll(templates []Template, windowStart, windowEnd time.Time) ([]models.Occurrence, error) {
	return defaultExpander.ExpandAll(templates, windowStart, windowEnd)
}

func (e *Expander) Expand(t Template, windowStart, windowEnd time.Time) ([]models.Occurrence, error) {
	window, err := timerange.NewSpan(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if err := t.Span.Validate(); err != nil {
		return nil, err
	}

	visible, ok := t.Span.Intersect(window)
	if !ok {
		return nil, nil
	}

	if t.Repeat == models.RepeatNever || t.Repeat == "" {
		occ := t.occurrence(visible.Start)
		if visible.End.After(visible.Start) {
			occ.Through = visible.End
		}
		return []models.Occurrence{occ}, nil
	}

	freq, err := frequency(t.Repeat)
	if err != nil {
		return nil, err
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: timerange.Day(t.Span.Start),
		Until:   timerange.Day(t.Span.End),
	})
	if err != nil {
		return nil, fmt.Errorf("recurrence rule for %s: %w", t.ID, err)
	}

	dates := rule.Between(visible.Start, visible.End, true)
	if limit := e.maxOccurrences(); len(dates) > limit {
		e.Logger.WithFields(logrus.Fields{
			"template_id": t.ID,
			"repeat":      t.Repeat,
			"cap":         limit,
		}).Warn("Occurrence expansion truncated")
		dates = dates[:limit]
	}

	out := make([]models.Occurrence, 0, len(dates))
	for _, d := range dates {
		out = append(out, t.occurrence(d))
	}
	return out, nil
}

func (e *Expander) ExpandAll(templates []Template, windowStart, windowEnd time.Time) ([]models.Occurrence, error) {
	var all []models.Occurrence
	for _, t := range templates {
		occ, err := e.Expand(t, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		all = append(all, occ...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		if all[i].StartTime != all[j].StartTime {
			return all[i].StartTime < all[j].StartTime
		}
		return all[i].TemplateID < all[j].TemplateID
	})
	return all, nil
}

func (e *Expander) maxOccurrences() int {
	if e.MaxOccurrences <= 0 {
		return DefaultMaxOccurrences
	}
	return e.MaxOccurrences
}

func (t Template) occurrence(date time.Time) models.Occurrence {
	return models.Occurrence{
		TemplateID: t.ID,
		Date:       timerange.Day(date),
		StartTime:  t.Start,
		EndTime:    t.End,
		Kind:       t.Kind,
		AllDay:     t.AllDay,
	}
}

// frequency: еженедельно - в день недели даты начала, ежемесячно и ежегодно -
// в тот же день месяца; несуществующие даты (31 февраля) пропускаются правилом rrule
func frequency(r models.Repeat) (rrule.Frequency, error) {
	switch r {
	case models.RepeatDaily:
		return rrule.DAILY, nil
	case models.RepeatWeekly:
		return rrule.WEEKLY, nil
	case models.RepeatMonthly:
		return rrule.MONTHLY, nil
	case models.RepeatYearly:
		return rrule.YEARLY, nil
	}
	return 0, &models.ValidationError{Field: "repeat", Message: "неизвестное правило повторения: " + string(r)}
}
