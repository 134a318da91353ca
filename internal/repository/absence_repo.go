package repository

import (
	"context"

	"practice-schedule/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AbsenceRepository interface {
	GetAll(ctx context.Context) ([]models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	CreateBatch(ctx context.Context, absences []models.Absence) error
	Update(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
}

type GormAbsenceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAbsenceRepository(db *gorm.DB, logger *logrus.Logger) (*GormAbsenceRepository, error) {
	if err := db.AutoMigrate(&models.Absence{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate absences table")
		return nil, err
	}
	return &GormAbsenceRepository{db: db, logger: logger}, nil
}

func (r *GormAbsenceRepository) GetAll(ctx context.Context) ([]models.Absence, error) {
	var absences []models.Absence
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&absences).Error
	return absences, err
}

func (r *GormAbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Create(absence).Error
}

// CreateBatch сохраняет отсутствия одной транзакцией
func (r *GormAbsenceRepository) CreateBatch(ctx context.Context, absences []models.Absence) error {
	if len(absences) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&absences).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("count", len(absences)).Error("Failed to create absence batch")
	}
	return err
}

func (r *GormAbsenceRepository) Update(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Save(absence).Error
}

func (r *GormAbsenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Absence{}, "id = ?", id).Error
}
