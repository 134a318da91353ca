package repository

import (
	"context"

	"practice-schedule/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncConnectionRepository interface {
	GetAll(ctx context.Context) ([]models.SyncConnection, error)
	Save(ctx context.Context, conn *models.SyncConnection) error
}

type GormSyncConnectionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSyncConnectionRepository(db *gorm.DB, logger *logrus.Logger) (*GormSyncConnectionRepository, error) {
	if err := db.AutoMigrate(&models.SyncConnection{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate sync_connections table")
		return nil, err
	}
	return &GormSyncConnectionRepository{db: db, logger: logger}, nil
}

func (r *GormSyncConnectionRepository) GetAll(ctx context.Context) ([]models.SyncConnection, error) {
	var conns []models.SyncConnection
	err := r.db.WithContext(ctx).Order("provider ASC").Find(&conns).Error
	return conns, err
}

// Save создает или обновляет состояние подключения по провайдеру
func (r *GormSyncConnectionRepository) Save(ctx context.Context, conn *models.SyncConnection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}
