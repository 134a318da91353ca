package models

import "time"

type SyncProvider string

const (
	ProviderGoogle  SyncProvider = "google"
	ProviderOutlook SyncProvider = "outlook"
	ProviderCalDAV  SyncProvider = "caldav"
)

// Providers перечисляет поддерживаемые внешние календари
func Providers() []SyncProvider {
	return []SyncProvider{ProviderGoogle, ProviderOutlook, ProviderCalDAV}
}

func (p SyncProvider) Valid() bool {
	for _, known := range Providers() {
		if p == known {
			return true
		}
	}
	return false
}

type SyncStatus string

const (
	SyncDisconnected SyncStatus = "disconnected"
	SyncConnected    SyncStatus = "connected"
)

// SyncConnection - состояние подключения внешнего календаря (без реального обмена)
type SyncConnection struct {
	Provider  SyncProvider `gorm:"primaryKey;type:varchar(20)" json:"provider"`
	Status    SyncStatus   `gorm:"type:varchar(20);not null;default:'disconnected'" json:"status"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SyncConnection) TableName() string {
	return "sync_connections"
}

// Toggled возвращает соединение с противоположным статусом
func (c SyncConnection) Toggled() SyncConnection {
	if c.Status == SyncConnected {
		c.Status = SyncDisconnected
	} else {
		c.Status = SyncConnected
	}
	return c
}

func (c SyncConnection) IsConnected() bool {
	return c.Status == SyncConnected
}
