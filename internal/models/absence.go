package models

import (
	"time"

	"practice-schedule/pkg/timerange"
)

type AbsenceType string

const (
	AbsenceTypeVacation   AbsenceType = "vacation"
	AbsenceTypeSick       AbsenceType = "sick"
	AbsenceTypePersonal   AbsenceType = "personal"
	AbsenceTypeTraining   AbsenceType = "training"
	AbsenceTypeConference AbsenceType = "conference"
	AbsenceTypeOther      AbsenceType = "other"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceTypeVacation, AbsenceTypeSick, AbsenceTypePersonal,
		AbsenceTypeTraining, AbsenceTypeConference, AbsenceTypeOther:
		return true
	}
	return false
}

// Absence - период отсутствия (отпуск, больничный, обучение и т.д.)
type Absence struct {
	ID                  string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type                AbsenceType     `gorm:"type:varchar(20);not null" json:"type"`
	StartDate           time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	EndDate             time.Time       `gorm:"type:date;not null" json:"end_date"`
	AllDay              bool            `gorm:"not null;default:true" json:"all_day"`
	StartTime           timerange.Clock `json:"start_time"`
	EndTime             timerange.Clock `json:"end_time"`
	Repeat              Repeat          `gorm:"type:varchar(10);not null;default:'never'" json:"repeat"`
	Timezone            string          `gorm:"type:varchar(64)" json:"timezone"`
	Reason              string          `json:"reason"`
	NotifyClients       bool            `json:"notify_clients"`
	AutoDeclineBookings bool            `json:"auto_decline_bookings"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Вычисляется при сохранении, в базе не хранится
	AffectedAppointments int `gorm:"-" json:"affected_appointments"`
}

func (Absence) TableName() string {
	return "absences"
}

func (a *Absence) Span() timerange.DateSpan {
	return timerange.DateSpan{Start: a.StartDate, End: a.EndDate}
}

// Times возвращает блокируемое время дня; для AllDay это весь день
func (a *Absence) Times() (timerange.Clock, timerange.Clock) {
	if a.AllDay {
		return 0, timerange.EndOfDay
	}
	return a.StartTime, a.EndTime
}

func (a *Absence) Normalize(defaultTimezone string) {
	a.StartDate = timerange.Day(a.StartDate)
	a.EndDate = timerange.Day(a.EndDate)
	if a.Repeat == "" {
		a.Repeat = RepeatNever
	}
	if a.Timezone == "" {
		a.Timezone = defaultTimezone
	}
	if a.AllDay {
		a.StartTime, a.EndTime = 0, 0
	}
}

// Validate проверяет период отсутствия; время проверяется только если отсутствие не на весь день
func (a *Absence) Validate() error {
	if !a.Type.Valid() {
		return &ValidationError{Field: "type", Message: "неизвестный тип отсутствия: " + string(a.Type)}
	}
	if err := a.Span().Validate(); err != nil {
		return err
	}
	if !a.AllDay {
		if err := timerange.ValidateClocks(a.StartTime, a.EndTime); err != nil {
			return err
		}
	}
	if !a.Repeat.ValidForAbsence() {
		return &ValidationError{Field: "repeat", Message: "неизвестное правило повторения: " + string(a.Repeat)}
	}
	if a.Timezone == "" {
		return &ValidationError{Field: "timezone", Message: "часовой пояс обязателен"}
	}
	return nil
}
