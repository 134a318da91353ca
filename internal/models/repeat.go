package models

import "fmt"

type Repeat string

const (
	RepeatNever   Repeat = "never"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

// ValidForSlot - слоты не повторяются ежегодно
func (r Repeat) ValidForSlot() bool {
	switch r {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

func (r Repeat) ValidForAbsence() bool {
	return r.ValidForSlot() || r == RepeatYearly
}

// ValidationError - не заполнено или некорректно обязательное поле
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}
