package models

import (
	"time"

	"practice-schedule/pkg/timerange"
)

type OccurrenceKind string

const (
	KindAvailability OccurrenceKind = "availability"
	KindAbsence      OccurrenceKind = "absence"
)

// Occurrence - конкретный экземпляр слота или отсутствия на дату.
// Для неповторяющегося многодневного шаблона Through указывает последнюю дату.
type Occurrence struct {
	TemplateID string          `json:"template_id"`
	Date       time.Time       `json:"date"`
	Through    time.Time       `json:"through"`
	StartTime  timerange.Clock `json:"start_time"`
	EndTime    timerange.Clock `json:"end_time"`
	Kind       OccurrenceKind  `json:"kind"`
	AllDay     bool            `json:"all_day"`
}

// Days возвращает диапазоны времени по каждому дню экземпляра
func (o Occurrence) Days() []timerange.Range {
	last := o.Through
	if last.IsZero() || last.Before(o.Date) {
		last = o.Date
	}

	var out []timerange.Range
	for d := timerange.Day(o.Date); !d.After(timerange.Day(last)); d = d.AddDate(0, 0, 1) {
		out = append(out, timerange.Range{Date: d, Start: o.StartTime, End: o.EndTime})
	}
	return out
}
