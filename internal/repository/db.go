package repository

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open открывает SQLite базу данных
func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	return db, nil
}

// Repositories - все репозитории расписания
type Repositories struct {
	Slots        SlotRepository
	Absences     AbsenceRepository
	Appointments AppointmentRepository
	Sync         SyncConnectionRepository
}

// NewRepositories создает репозитории и выполняет миграции
func NewRepositories(db *gorm.DB, log *logrus.Logger) (*Repositories, error) {
	slots, err := NewGormSlotRepository(db, log)
	if err != nil {
		return nil, err
	}
	absences, err := NewGormAbsenceRepository(db, log)
	if err != nil {
		return nil, err
	}
	appointments, err := NewGormAppointmentRepository(db, log)
	if err != nil {
		return nil, err
	}
	syncConns, err := NewGormSyncConnectionRepository(db, log)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Slots:        slots,
		Absences:     absences,
		Appointments: appointments,
		Sync:         syncConns,
	}, nil
}
