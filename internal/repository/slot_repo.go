package repository

import (
	"context"

	"practice-schedule/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SlotRepository interface {
	GetAll(ctx context.Context) ([]models.Slot, error)
	Create(ctx context.Context, slot *models.Slot) error
	CreateBatch(ctx context.Context, slots []models.Slot) error
	Update(ctx context.Context, slot *models.Slot) error
	Delete(ctx context.Context, id string) error
}

type GormSlotRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSlotRepository(db *gorm.DB, logger *logrus.Logger) (*GormSlotRepository, error) {
	// Автомиграция
	if err := db.AutoMigrate(&models.Slot{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate availability_slots table")
		return nil, err
	}

	return &GormSlotRepository{db: db, logger: logger}, nil
}

func (r *GormSlotRepository) GetAll(ctx context.Context) ([]models.Slot, error) {
	var slots []models.Slot
	err := r.db.WithContext(ctx).
		Order("start_date ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *models.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// CreateBatch сохраняет все слоты в одной транзакции: либо все, либо ни одного
func (r *GormSlotRepository) CreateBatch(ctx context.Context, slots []models.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&slots).Error
	})
	if err != nil {
		r.logger.WithError(err).WithField("count", len(slots)).Error("Failed to create slot batch")
	}
	return err
}

func (r *GormSlotRepository) Update(ctx context.Context, slot *models.Slot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *GormSlotRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Slot{}, "id = ?", id).Error
}
