package models

import (
	"time"

	"practice-schedule/pkg/timerange"
)

// Slot - шаблон доступности практикующего специалиста
type Slot struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StartDate time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time       `gorm:"type:date;not null" json:"end_date"`
	StartTime timerange.Clock `gorm:"not null" json:"start_time"`
	EndTime   timerange.Clock `gorm:"not null" json:"end_time"`
	Repeat    Repeat          `gorm:"type:varchar(10);not null;default:'never'" json:"repeat"`
	Timezone  string          `gorm:"type:varchar(64)" json:"timezone"`
	Color     string          `gorm:"type:varchar(20)" json:"color"`
	Title     string          `json:"title"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slot) TableName() string {
	return "availability_slots"
}

// Span возвращает диапазон дат действия слота
func (s *Slot) Span() timerange.DateSpan {
	return timerange.DateSpan{Start: s.StartDate, End: s.EndDate}
}

// Normalize обрезает время у дат и подставляет значения по умолчанию
func (s *Slot) Normalize(defaultTimezone string) {
	s.StartDate = timerange.Day(s.StartDate)
	s.EndDate = timerange.Day(s.EndDate)
	if s.Repeat == "" {
		s.Repeat = RepeatNever
	}
	if s.Timezone == "" {
		s.Timezone = defaultTimezone
	}
}

// Validate проверяет шаблон слота
func (s *Slot) Validate() error {
	if err := s.Span().Validate(); err != nil {
		return err
	}
	if err := timerange.ValidateClocks(s.StartTime, s.EndTime); err != nil {
		return err
	}
	if !s.Repeat.ValidForSlot() {
		return &ValidationError{Field: "repeat", Message: "неизвестное правило повторения: " + string(s.Repeat)}
	}
	if s.Timezone == "" {
		return &ValidationError{Field: "timezone", Message: "часовой пояс обязателен"}
	}
	return nil
}
