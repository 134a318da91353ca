package service

import (
	"errors"
	"fmt"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

var (
	ErrNotFound = errors.New("не найдено")
	// ErrMutationInFlight - предыдущее изменение еще не завершено
	ErrMutationInFlight = errors.New("предыдущее изменение еще выполняется, повторите позже")
)

// PersistenceError - ошибка сохранения; коллекции в памяти при этом не меняются
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("не удалось сохранить (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation - ошибка ввода, которую нужно показать пользователю как ошибку формы
func IsValidation(err error) bool {
	var rangeErr *timerange.InvalidRangeError
	var validationErr *models.ValidationError
	return errors.As(err, &rangeErr) || errors.As(err, &validationErr)
}
