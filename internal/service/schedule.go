package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"practice-schedule/internal/conflict"
	"practice-schedule/internal/models"
	"practice-schedule/internal/occupancy"
	"practice-schedule/internal/recurrence"
	"practice-schedule/internal/repository"
	"practice-schedule/pkg/metrics"
	"practice-schedule/pkg/timerange"
)

const (
	DefaultCopyOffsetDays      = 7
	DefaultConflictHorizonDays = 90
)

type Options struct {
	DefaultTimezone string
	// ConflictHorizonDays - на сколько дней от начала шаблона проверяются конфликты
	ConflictHorizonDays int
}

// MutationResult - сохраненное значение и предупреждения о конфликтах.
// Конфликты не блокируют операцию.
type MutationResult[T any] struct {
	Value     T                    `json:"value"`
	Conflicts []conflict.Report    `json:"conflicts"`
	Affected  []models.Appointment `json:"affected_appointments,omitempty"`
}

// snapshot - зафиксированное состояние коллекций, никогда не меняется на месте
type snapshot struct {
	version      uint64
	slots        []models.Slot
	absences     []models.Absence
	appointments []models.Appointment
	connections  []models.SyncConnection
}

type occupancyKey struct {
	version uint64
	week    time.Time
}

// ScheduleService владеет слотами, отсутствиями и записями специалиста
type ScheduleService struct {
	slotRepo        repository.SlotRepository
	absenceRepo     repository.AbsenceRepository
	appointmentRepo repository.AppointmentRepository
	syncRepo        repository.SyncConnectionRepository

	expander *recurrence.Expander
	options  Options
	logger   *logrus.Logger
	newID    func() string

	current atomic.Pointer[snapshot]
	writer  sync.Mutex

	memoMu sync.Mutex
	memo   map[occupancyKey]occupancy.WeekOccupancySummary
}

func NewScheduleService(repos *repository.Repositories, options Options, logger *logrus.Logger) *ScheduleService {
	if logger == nil {
		logger = logrus.New()
	}
	if options.DefaultTimezone == "" {
		options.DefaultTimezone = "UTC"
	}
	if options.ConflictHorizonDays <= 0 {
		options.ConflictHorizonDays = DefaultConflictHorizonDays
	}

	s := &ScheduleService{
		slotRepo:        repos.Slots,
		absenceRepo:     repos.Absences,
		appointmentRepo: repos.Appointments,
		syncRepo:        repos.Sync,
		expander:        recurrence.NewExpander(logger),
		options:         options,
		logger:          logger,
		newID:           uuid.NewString,
		memo:            make(map[occupancyKey]occupancy.WeekOccupancySummary),
	}
	s.current.Store(&snapshot{connections: withAllProviders(nil)})
	return s
}

// Load читает коллекции из репозиториев и заменяет текущее состояние
func (s *ScheduleService) Load(ctx context.Context) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	slots, err := s.slotRepo.GetAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load slots", Err: err}
	}
	absences, err := s.absenceRepo.GetAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load absences", Err: err}
	}
	appointments, err := s.appointmentRepo.GetAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load appointments", Err: err}
	}
	connections, err := s.syncRepo.GetAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load sync connections", Err: err}
	}

	slots = slices.DeleteFunc(slots, func(slot models.Slot) bool {
		if err := slot.Validate(); err != nil {
			s.logger.WithError(err).WithField("slot_id", slot.ID).Warn("Skipping invalid stored slot")
			return true
		}
		return false
	})
	absences = slices.DeleteFunc(absences, func(absence models.Absence) bool {
		if err := absence.Validate(); err != nil {
			s.logger.WithError(err).WithField("absence_id", absence.ID).Warn("Skipping invalid stored absence")
			return true
		}
		return false
	})

	absences = s.withAffectedCounts(absences, appointments)

	prev := s.current.Load()
	s.commit(&snapshot{
		version:      prev.version + 1,
		slots:        slots,
		absences:     absences,
		appointments: appointments,
		connections:  withAllProviders(connections),
	})

	s.logger.WithFields(logrus.Fields{
		"slots":        len(slots),
		"absences":     len(absences),
		"appointments": len(appointments),
	}).Info("Schedule loaded")
	return nil
}

// Slots возвращает копию зафиксированных слотов
func (s *ScheduleService) Slots() []models.Slot {
	return slices.Clone(s.current.Load().slots)
}

func (s *ScheduleService) Absences() []models.Absence {
	return slices.Clone(s.current.Load().absences)
}

func (s *ScheduleService) Appointments() []models.Appointment {
	return slices.Clone(s.current.Load().appointments)
}

// SyncConnections возвращает состояние всех провайдеров в фиксированном порядке
func (s *ScheduleService) SyncConnections() []models.SyncConnection {
	return slices.Clone(s.current.Load().connections)
}

// Version меняется при каждом зафиксированном изменении
func (s *ScheduleService) Version() uint64 {
	return s.current.Load().version
}

// Occurrences разворачивает слоты и отсутствия в окне дат
func (s *ScheduleService) Occurrences(from, to time.Time) ([]models.Occurrence, error) {
	return s.occurrences(s.current.Load(), from, to)
}

func (s *ScheduleService) occurrences(snap *snapshot, from, to time.Time) ([]models.Occurrence, error) {
	templates := make([]recurrence.Template, 0, len(snap.slots)+len(snap.absences))
	for _, slot := range snap.slots {
		t, err := recurrence.FromSlot(slot)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	for _, absence := range snap.absences {
		t, err := recurrence.FromAbsence(absence)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return s.expander.ExpandAll(templates, from, to)
}

// begin захватывает право на изменение; второе одновременное изменение получает ErrMutationInFlight
func (s *ScheduleService) begin() (*snapshot, error) {
	if !s.writer.TryLock() {
		return nil, ErrMutationInFlight
	}
	return s.current.Load(), nil
}

func (s *ScheduleService) end() {
	s.writer.Unlock()
}

func (s *ScheduleService) commit(next *snapshot) {
	s.current.Store(next)
	metrics.SetCollectionSizes(len(next.slots), len(next.absences), len(next.appointments))
}

// next копирует снимок с увеличенной версией; срезы копируются при изменении
func (snap *snapshot) next() *snapshot {
	return &snapshot{
		version:      snap.version + 1,
		slots:        snap.slots,
		absences:     snap.absences,
		appointments: snap.appointments,
		connections:  snap.connections,
	}
}

// horizon - окно проверки конфликтов для шаблона
func (s *ScheduleService) horizon(span timerange.DateSpan) (time.Time, time.Time) {
	start := timerange.Day(span.Start)
	end := start.AddDate(0, 0, s.options.ConflictHorizonDays-1)
	if last := timerange.Day(span.End); last.Before(end) {
		end = last
	}
	return start, end
}

func (s *ScheduleService) templateConflicts(t recurrence.Template, appointments []models.Appointment) ([]models.Occurrence, []conflict.Report, error) {
	from, to := s.horizon(t.Span)
	occurrences, err := s.expander.Expand(t, from, to)
	if err != nil {
		return nil, nil, err
	}
	return occurrences, conflict.Reports(occurrences, appointments, ""), nil
}

// observe вызывается через defer с указателем на именованный результат
func observe(operation string, started time.Time, errp *error) {
	err := *errp
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrMutationInFlight):
		status = "in_flight"
	case IsValidation(err):
		status = "invalid"
	default:
		status = "error"
	}
	metrics.RecordMutation(operation, status, time.Since(started).Seconds())
}

func withAllProviders(stored []models.SyncConnection) []models.SyncConnection {
	out := make([]models.SyncConnection, 0, len(models.Providers()))
	for _, provider := range models.Providers() {
		conn := models.SyncConnection{Provider: provider, Status: models.SyncDisconnected}
		for _, existing := range stored {
			if existing.Provider == provider {
				conn = existing
				break
			}
		}
		out = append(out, conn)
	}
	return out
}
