package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/metrics"
)

// ToggleExternalSync переключает статус подключения календаря; обмена данными нет
func (s *ScheduleService) ToggleExternalSync(ctx context.Context, provider models.SyncProvider) (conn models.SyncConnection, err error) {
	defer observe("toggle_sync", time.Now(), &err)
	if !provider.Valid() {
		return conn, &models.ValidationError{Field: "provider", Message: "неизвестный календарь: " + string(provider)}
	}

	snap, err := s.begin()
	if err != nil {
		return conn, err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.connections, func(c models.SyncConnection) bool { return c.Provider == provider })
	toggled := snap.connections[idx].Toggled()

	if err := s.syncRepo.Save(ctx, &toggled); err != nil {
		s.logger.WithError(err).WithField("provider", provider).Error("Failed to toggle sync")
		return conn, &PersistenceError{Op: "toggle sync", Err: err}
	}

	next := snap.next()
	next.connections = slices.Clone(snap.connections)
	next.connections[idx] = toggled
	s.commit(next)

	metrics.RecordSyncToggle(string(provider), string(toggled.Status))
	s.logger.WithFields(logrus.Fields{
		"provider": provider,
		"status":   toggled.Status,
	}).Info("External sync toggled")

	return toggled, nil
}
