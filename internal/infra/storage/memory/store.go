// Package memory хранилище в памяти процесса.
// Реализует те же контракты, что и PostgreSQL-репозитории, и возвращает те же ошибки.
// Транзакция - это глобальная блокировка хранилища плюс снимок для отката.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type tickKey struct {
	professionalID int64
	date           string
	start          types.TimeString
	end            types.TimeString
}

type state struct {
	ticks          map[int64]*domain.Tick
	tickIndex      map[tickKey]int64
	appointments   map[int64]*domain.Appointment
	familyBookings map[int64]*domain.FamilyBooking
	services       map[int64]*domain.Service
	professionals  map[int64]*domain.Professional

	nextTickID          int64
	nextAppointmentID   int64
	nextFamilyBookingID int64
	nextItemID          int64
}

func newState() *state {
	return &state{
		ticks:          make(map[int64]*domain.Tick),
		tickIndex:      make(map[tickKey]int64),
		appointments:   make(map[int64]*domain.Appointment),
		familyBookings: make(map[int64]*domain.FamilyBooking),
		services:       make(map[int64]*domain.Service),
		professionals:  make(map[int64]*domain.Professional),
	}
}

// Store in-process хранилище всех сущностей сервиса
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock берет блокировку хранилища, если вызов не внутри транзакции
// Внутри транзакции блокировка уже удерживается TransactionManager'ом
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) TimeSlots() *TimeSlotRepository {
	return &TimeSlotRepository{store: s}
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{store: s}
}

func (s *Store) FamilyBookings() *FamilyBookingRepository {
	return &FamilyBookingRepository{store: s}
}

func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

func (s *Store) TxManager() *TransactionManager {
	return &TransactionManager{store: s}
}

// AddService добавляет услугу в каталог (сидинг и тесты)
func (s *Store) AddService(svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := svc
	s.st.services[svc.ID] = &c
}

// AddProfessional добавляет мастера в каталог (сидинг и тесты)
func (s *Store) AddProfessional(p domain.Professional) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p
	s.st.professionals[p.ID] = &c
}

// TransactionManager транзакции поверх Store
// Уровень изоляции всегда фактически SERIALIZABLE: транзакции выполняются по очереди
type TransactionManager struct {
	store *Store
}

func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := m.store.st.clone()

	committed := false
	defer func() {
		if !committed {
			m.store.st = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (st *state) clone() *state {
	c := newState()

	for id, t := range st.ticks {
		c.ticks[id] = cloneTick(t)
	}
	for k, v := range st.tickIndex {
		c.tickIndex[k] = v
	}
	for id, a := range st.appointments {
		c.appointments[id] = cloneAppointment(a)
	}
	for id, b := range st.familyBookings {
		c.familyBookings[id] = cloneFamilyBooking(b)
	}
	for id, svc := range st.services {
		v := *svc
		c.services[id] = &v
	}
	for id, p := range st.professionals {
		v := *p
		c.professionals[id] = &v
	}

	c.nextTickID = st.nextTickID
	c.nextAppointmentID = st.nextAppointmentID
	c.nextFamilyBookingID = st.nextFamilyBookingID
	c.nextItemID = st.nextItemID
	return c
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTick(t *domain.Tick) *domain.Tick {
	c := *t
	c.AppointmentID = cloneInt64(t.AppointmentID)
	c.FamilyBookingID = cloneInt64(t.FamilyBookingID)
	return &c
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	c := *a
	c.ProfessionalID = cloneInt64(a.ProfessionalID)
	c.Notes = cloneString(a.Notes)
	c.Services = make([]domain.ServiceLineItem, len(a.Services))
	for i, s := range a.Services {
		s.ServiceID = cloneInt64(s.ServiceID)
		c.Services[i] = s
	}
	return &c
}

func cloneFamilyBooking(b *domain.FamilyBooking) *domain.FamilyBooking {
	c := *b
	c.SpecialInstructions = cloneString(b.SpecialInstructions)
	c.Items = make([]domain.FamilyBookingItem, len(b.Items))
	for i, item := range b.Items {
		item.ServiceID = cloneInt64(item.ServiceID)
		item.ProfessionalID = cloneInt64(item.ProfessionalID)
		item.Notes = cloneString(item.Notes)
		item.Member.Preferences = cloneString(item.Member.Preferences)
		c.Items[i] = item
	}
	return &c
}

func sortTicks(ticks []domain.Tick) {
	sort.Slice(ticks, func(i, j int) bool {
		return ticks[i].StartTime < ticks[j].StartTime
	})
}
