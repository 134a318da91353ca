package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/conflict"
	"practice-schedule/internal/models"
	"practice-schedule/internal/recurrence"
	"practice-schedule/internal/selection"
	"practice-schedule/pkg/metrics"
	"practice-schedule/pkg/timerange"
)

// CreateSlot создает слот доступности и сообщает о конфликтах с записями
func (s *ScheduleService) CreateSlot(ctx context.Context, slot models.Slot) (result MutationResult[models.Slot], err error) {
	defer observe("create_slot", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	slot.Normalize(s.options.DefaultTimezone)
	if slot.ID == "" {
		slot.ID = s.newID()
	}
	reports, err := s.checkSlot(slot, snap.appointments)
	if err != nil {
		s.logger.WithError(err).Warn("Invalid slot rejected")
		return result, err
	}

	if err := s.slotRepo.Create(ctx, &slot); err != nil {
		s.logger.WithError(err).WithField("slot_id", slot.ID).Error("Failed to create slot")
		return result, &PersistenceError{Op: "create slot", Err: err}
	}

	next := snap.next()
	next.slots = append(slices.Clone(snap.slots), slot)
	s.commit(next)

	metrics.RecordConflicts("create_slot", conflict.Count(reports))
	s.logger.WithFields(logrus.Fields{
		"slot_id":    slot.ID,
		"start_date": slot.StartDate.Format(timerange.DateLayout),
		"end_date":   slot.EndDate.Format(timerange.DateLayout),
		"repeat":     slot.Repeat,
		"conflicts":  len(reports),
	}).Info("Slot created")

	return MutationResult[models.Slot]{Value: slot, Conflicts: reports}, nil
}

// UpdateSlot заменяет существующий слот целиком
func (s *ScheduleService) UpdateSlot(ctx context.Context, slot models.Slot) (result MutationResult[models.Slot], err error) {
	defer observe("update_slot", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.slots, func(existing models.Slot) bool { return existing.ID == slot.ID })
	if idx < 0 {
		return result, ErrNotFound
	}

	slot.Normalize(s.options.DefaultTimezone)
	slot.CreatedAt = snap.slots[idx].CreatedAt
	reports, err := s.checkSlot(slot, snap.appointments)
	if err != nil {
		return result, err
	}

	if err := s.slotRepo.Update(ctx, &slot); err != nil {
		s.logger.WithError(err).WithField("slot_id", slot.ID).Error("Failed to update slot")
		return result, &PersistenceError{Op: "update slot", Err: err}
	}

	next := snap.next()
	next.slots = slices.Clone(snap.slots)
	next.slots[idx] = slot
	s.commit(next)

	metrics.RecordConflicts("update_slot", conflict.Count(reports))
	s.logger.WithFields(logrus.Fields{
		"slot_id":   slot.ID,
		"conflicts": len(reports),
	}).Info("Slot updated")

	return MutationResult[models.Slot]{Value: slot, Conflicts: reports}, nil
}

// DeleteSlot удаляет слот по явному запросу пользователя
func (s *ScheduleService) DeleteSlot(ctx context.Context, id string) (err error) {
	defer observe("delete_slot", time.Now(), &err)
	snap, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	idx := slices.IndexFunc(snap.slots, func(existing models.Slot) bool { return existing.ID == id })
	if idx < 0 {
		return ErrNotFound
	}

	if err := s.slotRepo.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithField("slot_id", id).Error("Failed to delete slot")
		return &PersistenceError{Op: "delete slot", Err: err}
	}

	next := snap.next()
	next.slots = slices.Delete(slices.Clone(snap.slots), idx, idx+1)
	s.commit(next)

	s.logger.WithField("slot_id", id).Info("Slot deleted")
	return nil
}

// CreateSlotFromSelection сохраняет слот, выделенный на сетке недели
func (s *ScheduleService) CreateSlotFromSelection(ctx context.Context, block selection.Block, weekStart time.Time, defaults models.Slot) (MutationResult[models.Slot], error) {
	draft := block.SlotDraft(weekStart, defaults)
	s.logger.WithFields(logrus.Fields{
		"min_day":  block.MinDay,
		"max_day":  block.MaxDay,
		"min_hour": block.MinHour,
		"max_hour": block.MaxHour,
	}).Debug("Creating slot from grid selection")
	return s.CreateSlot(ctx, draft)
}

// CopyWeekForward копирует все слоты со сдвигом обеих дат на offsetDays (по умолчанию 7).
// Копии получают новые идентификаторы и сохраняются одной транзакцией.
func (s *ScheduleService) CopyWeekForward(ctx context.Context, offsetDays int) (result MutationResult[[]models.Slot], err error) {
	defer observe("copy_week", time.Now(), &err)
	if offsetDays == 0 {
		offsetDays = DefaultCopyOffsetDays
	}
	if offsetDays < 0 {
		return result, &models.ValidationError{Field: "offset_days", Message: "сдвиг должен быть положительным"}
	}

	snap, err := s.begin()
	if err != nil {
		return result, err
	}
	defer s.end()

	copies := make([]models.Slot, 0, len(snap.slots))
	var reports []conflict.Report
	for _, original := range snap.slots {
		clone := original
		clone.ID = s.newID()
		clone.StartDate = original.StartDate.AddDate(0, 0, offsetDays)
		clone.EndDate = original.EndDate.AddDate(0, 0, offsetDays)
		clone.CreatedAt, clone.UpdatedAt = time.Time{}, time.Time{}

		found, err := s.checkSlot(clone, snap.appointments)
		if err != nil {
			return result, err
		}
		reports = append(reports, found...)
		copies = append(copies, clone)
	}

	if len(copies) == 0 {
		return MutationResult[[]models.Slot]{Value: copies}, nil
	}

	if err := s.slotRepo.CreateBatch(ctx, copies); err != nil {
		s.logger.WithError(err).WithField("count", len(copies)).Error("Failed to copy week")
		return result, &PersistenceError{Op: "copy week", Err: err}
	}

	next := snap.next()
	next.slots = append(slices.Clone(snap.slots), copies...)
	s.commit(next)

	metrics.RecordSlotsCopied(len(copies))
	metrics.RecordConflicts("copy_week", conflict.Count(reports))
	s.logger.WithFields(logrus.Fields{
		"copied":      len(copies),
		"offset_days": offsetDays,
		"conflicts":   len(reports),
	}).Info("Week copied forward")

	return MutationResult[[]models.Slot]{Value: copies, Conflicts: reports}, nil
}

func (s *ScheduleService) checkSlot(slot models.Slot, appointments []models.Appointment) ([]conflict.Report, error) {
	t, err := recurrence.FromSlot(slot)
	if err != nil {
		return nil, err
	}
	_, reports, err := s.templateConflicts(t, appointments)
	return reports, err
}
