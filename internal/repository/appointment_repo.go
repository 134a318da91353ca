package repository

import (
	"context"

	"practice-schedule/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	GetAll(ctx context.Context) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Update(ctx context.Context, appointment *models.Appointment) error
}

type GormAppointmentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAppointmentRepository(db *gorm.DB, logger *logrus.Logger) (*GormAppointmentRepository, error) {
	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate appointments table")
		return nil, err
	}
	return &GormAppointmentRepository{db: db, logger: logger}, nil
}

// GetAll возвращает записи в порядке даты и времени начала
func (r *GormAppointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Order("date ASC, start_time ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *GormAppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}
