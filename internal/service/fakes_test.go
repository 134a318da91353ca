package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"practice-schedule/internal/models"
	"practice-schedule/internal/repository"
)

var errStorage = errors.New("storage unavailable")

type fakeSlotRepo struct {
	mu    sync.Mutex
	items map[string]models.Slot
	err   error

	// если задан, Create ждет закрытия release после сигнала в entered
	entered chan struct{}
	release chan struct{}
}

func (r *fakeSlotRepo) GetAll(ctx context.Context) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Slot, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, r.err
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	if r.release != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[slot.ID] = *slot
	return nil
}

func (r *fakeSlotRepo) CreateBatch(ctx context.Context, slots []models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, s := range slots {
		r.items[s.ID] = s
	}
	return nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *models.Slot) error {
	return r.Create(ctx, slot)
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

type fakeAbsenceRepo struct {
	mu    sync.Mutex
	items map[string]models.Absence
	err   error
}

func (r *fakeAbsenceRepo) GetAll(ctx context.Context) ([]models.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Absence, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, r.err
}

func (r *fakeAbsenceRepo) Create(ctx context.Context, absence *models.Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	stored := *absence
	stored.AffectedAppointments = 0
	r.items[absence.ID] = stored
	return nil
}

func (r *fakeAbsenceRepo) CreateBatch(ctx context.Context, absences []models.Absence) error {
	for i := range absences {
		if err := r.Create(ctx, &absences[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAbsenceRepo) Update(ctx context.Context, absence *models.Absence) error {
	return r.Create(ctx, absence)
}

func (r *fakeAbsenceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items []models.Appointment
	err   error
}

func (r *fakeAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Appointment(nil), r.items...), r.err
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items = append(r.items, *appt)
	return nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i := range r.items {
		if r.items[i].ID == appt.ID {
			r.items[i] = *appt
		}
	}
	return nil
}

type fakeSyncRepo struct {
	mu    sync.Mutex
	items map[models.SyncProvider]models.SyncConnection
	err   error
}

func (r *fakeSyncRepo) GetAll(ctx context.Context) ([]models.SyncConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SyncConnection
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, r.err
}

func (r *fakeSyncRepo) Save(ctx context.Context, conn *models.SyncConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[conn.Provider] = *conn
	return nil
}

type fakeRepos struct {
	slots        *fakeSlotRepo
	absences     *fakeAbsenceRepo
	appointments *fakeAppointmentRepo
	sync         *fakeSyncRepo
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		slots:        &fakeSlotRepo{items: make(map[string]models.Slot)},
		absences:     &fakeAbsenceRepo{items: make(map[string]models.Absence)},
		appointments: &fakeAppointmentRepo{},
		sync:         &fakeSyncRepo{items: make(map[models.SyncProvider]models.SyncConnection)},
	}
}

func (f *fakeRepos) repositories() *repository.Repositories {
	return &repository.Repositories{
		Slots:        f.slots,
		Absences:     f.absences,
		Appointments: f.appointments,
		Sync:         f.sync,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newTestService(f *fakeRepos) *ScheduleService {
	return NewScheduleService(f.repositories(), Options{DefaultTimezone: "UTC", ConflictHorizonDays: 60}, quietLogger())
}
