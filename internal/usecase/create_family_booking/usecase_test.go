package create_family_booking

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var testDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

type testEnv struct {
	store     *memory.Store
	reserver  *slots.Reserver
	publisher *recordingPublisher
	uc        *UseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.AddService(domain.Service{ID: 1, SalonID: 1, Name: "Haircut", Price: 25, Duration: "45min"})
	store.AddService(domain.Service{ID: 2, SalonID: 1, Name: "Kids haircut", Price: 15, Duration: "30 mins"})
	store.AddProfessional(domain.Professional{ID: 1, SalonID: 1, Name: "Anna", IsAvailable: true})
	store.AddProfessional(domain.Professional{ID: 2, SalonID: 1, Name: "Maria", IsAvailable: true})
	store.AddProfessional(domain.Professional{ID: 3, SalonID: 2, Name: "Olga", IsAvailable: true})

	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")
	log := logger.Nop()
	gen := slots.NewGenerator(store.TimeSlots(), store.Catalog(), slots.DefaultWindow(), m, log)
	reserver := slots.NewReserver(gen, store.TimeSlots(), m, log)
	publisher := &recordingPublisher{}

	uc := NewUseCase(store.FamilyBookings(), store.Catalog(), reserver, store.TxManager(), locker.NewLocalLocker(), time.Second, publisher, m, log)
	return &testEnv{store: store, reserver: reserver, publisher: publisher, uc: uc}
}

func (e *testEnv) bookedTicks(t *testing.T, professionalID int64) []domain.Tick {
	t.Helper()

	ticks, err := e.store.TimeSlots().GetByProfessionalAndDate(context.Background(), professionalID, testDate)
	require.NoError(t, err)

	booked := make([]domain.Tick, 0)
	for _, tick := range ticks {
		if tick.IsBooked {
			booked = append(booked, tick)
		}
	}
	return booked
}

func item(member string, serviceID, professionalID int64, start string) ItemRequest {
	return ItemRequest{
		Member:         domain.FamilyMember{Name: member, Relationship: "child"},
		ServiceID:      ptr.Ptr(serviceID),
		ProfessionalID: ptr.Ptr(professionalID),
		StartTime:      types.MustTimeString(start),
	}
}

func request(items ...ItemRequest) *Request {
	return &Request{
		Customer:       domain.Customer{Name: "Jane", Email: "jane@example.com", Phone: "+10000000000"},
		SalonID:        1,
		BookingDate:    testDate,
		Items:          items,
		IsGroupBooking: true,
	}
}

func TestExecute_CreatesBookingAndReservesTicks(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.uc.Execute(context.Background(), request(
		item("Jane", 1, 1, "10:00"),
		item("Tom", 2, 2, "10:00"),
		item("Ann", 2, 1, "10:45"),
	))
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, 55.0, got.TotalPrice)
	require.Len(t, got.Items, 3)
	assert.Equal(t, types.TimeString("10:45"), got.Items[0].EndTime)
	assert.Equal(t, types.TimeString("10:30"), got.Items[1].EndTime)
	assert.Equal(t, "Kids haircut", got.Items[2].ServiceName)
	assert.Equal(t, 15.0, got.Items[2].ServicePrice)

	booked := env.bookedTicks(t, 1)
	assert.Len(t, booked, 9+6)
	for _, tick := range booked {
		assert.True(t, tick.OwnedBy(got.Owner()))
	}
	assert.Len(t, env.bookedTicks(t, 2), 6)

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, events.TypeFamilyBookingCreated, env.publisher.events[0].Type)
}

func TestExecute_ExplicitEndTime(t *testing.T) {
	env := newTestEnv(t)

	in := item("Jane", 1, 1, "10:00")
	in.EndTime = "11:00"

	got, err := env.uc.Execute(context.Background(), request(in))
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:00"), got.Items[0].EndTime)
	assert.Len(t, env.bookedTicks(t, 1), 12)
}

func TestExecute_ItemsWithoutSlot(t *testing.T) {
	env := newTestEnv(t)

	noTime := item("Jane", 1, 1, "10:00")
	noTime.StartTime = ""
	noProfessional := item("Tom", 2, 1, "10:00")
	noProfessional.ProfessionalID = nil

	got, err := env.uc.Execute(context.Background(), request(noTime, noProfessional))
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.TotalPrice)
	assert.Empty(t, env.bookedTicks(t, 1))
}

func TestExecute_InternalOverlap(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), request(
		item("Jane", 1, 1, "10:00"),
		item("Tom", 2, 1, "10:30"),
	))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, env.bookedTicks(t, 1))
}

func TestExecute_ConflictWithExistingBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reserver.Reserve(ctx, 2, testDate, "11:00", "11:30", domain.AppointmentOwner(100))
	require.NoError(t, err)

	_, err = env.uc.Execute(ctx, request(
		item("Jane", 1, 1, "09:00"),
		item("Tom", 2, 2, "11:15"),
		item("Ann", 2, 1, "14:00"),
	))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// ни одна позиция не сохранена: ни до конфликтной, ни после
	assert.Empty(t, env.bookedTicks(t, 1))
	assert.Len(t, env.bookedTicks(t, 2), 6)
	for _, tick := range env.bookedTicks(t, 2) {
		assert.True(t, tick.OwnedBy(domain.AppointmentOwner(100)))
	}
	assert.NoError(t, env.reserver.CheckFree(ctx, 1, testDate, "09:00", "09:45"))
	assert.NoError(t, env.reserver.CheckFree(ctx, 1, testDate, "14:00", "14:30"))
	list, err := env.store.FamilyBookings().ListByCustomer(ctx, domain.CustomerFilter{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, env.publisher.events)
}

func TestExecute_Errors(t *testing.T) {
	outside := item("Jane", 1, 1, "17:30")

	unknownService := item("Jane", 99, 1, "10:00")

	unknownProfessional := item("Jane", 1, 42, "10:00")

	otherSalonProfessional := item("Jane", 1, 3, "10:00")

	endWithoutStart := item("Jane", 1, 1, "10:00")
	endWithoutStart.StartTime = ""
	endWithoutStart.EndTime = "11:00"

	reversed := item("Jane", 1, 1, "11:00")
	reversed.EndTime = "10:00"

	noMember := item("", 1, 1, "10:00")

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "outside working hours", req: request(outside), wantErr: ErrSlotConflict},
		{name: "unknown service", req: request(unknownService), wantErr: ErrServiceNotFound},
		{name: "unknown professional", req: request(unknownProfessional), wantErr: ErrProfessionalNotFound},
		{name: "professional of another salon", req: request(otherSalonProfessional), wantErr: ErrInvalidInput},
		{name: "end without start", req: request(endWithoutStart), wantErr: ErrInvalidInput},
		{name: "start after end", req: request(reversed), wantErr: ErrInvalidInput},
		{name: "no member name", req: request(noMember), wantErr: ErrInvalidInput},
		{name: "no items", req: request(), wantErr: ErrInvalidInput},
		{name: "no email", req: &Request{Customer: domain.Customer{Name: "Jane", Phone: "1"}, SalonID: 1, BookingDate: testDate, Items: []ItemRequest{item("Jane", 1, 1, "10:00")}}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			got, err := env.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			assert.Empty(t, env.bookedTicks(t, 1))
		})
	}
}
