package models

import (
	"time"

	"practice-schedule/pkg/timerange"
)

type AppointmentStatus string

// Статусы записей клиентов
const (
	StatusUpcoming  AppointmentStatus = "upcoming"
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusPending, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment - конкретная запись клиента, не разворачивается
type Appointment struct {
	ID         string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Date       time.Time         `gorm:"type:date;not null;index" json:"date"`
	StartTime  timerange.Clock   `gorm:"not null" json:"start_time"`
	EndTime    timerange.Clock   `gorm:"not null" json:"end_time"`
	ClientID   string            `gorm:"type:varchar(64);not null;index" json:"client_id"`
	ClientName string            `json:"client_name"`
	Status     AppointmentStatus `gorm:"type:varchar(20);not null;default:'upcoming';index" json:"status"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) Range() timerange.Range {
	return timerange.Range{Date: a.Date, Start: a.StartTime, End: a.EndTime}
}

// IsActive - отмененные записи не считаются конфликтами и не занимают время
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// DurationMinutes длительность записи
func (a *Appointment) DurationMinutes() int {
	d, err := timerange.DurationMinutes(a.Range())
	if err != nil {
		return 0
	}
	return d
}

func (a *Appointment) Normalize() {
	a.Date = timerange.Day(a.Date)
	if a.Status == "" {
		a.Status = StatusUpcoming
	}
}

func (a *Appointment) Validate() error {
	if err := a.Range().Validate(); err != nil {
		return err
	}
	if a.ClientID == "" {
		return &ValidationError{Field: "client_id", Message: "клиент обязателен"}
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Message: "неизвестный статус: " + string(a.Status)}
	}
	return nil
}
