package familybookings

import (
	"context"
	"testing"
	"time"

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
	service   *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.AddProfessional(domain.Professional{ID: 1, SalonID: 1, Name: "Anna", IsAvailable: true})
	store.AddProfessional(domain.Professional{ID: 2, SalonID: 1, Name: "Maria", IsAvailable: true})

	var m *metrics.Metrics
	log := logger.Nop()
	gen := slots.NewGenerator(store.TimeSlots(), store.Catalog(), slots.DefaultWindow(), m, log)
	reserver := slots.NewReserver(gen, store.TimeSlots(), m, log)
	publisher := &recordingPublisher{}

	service := NewService(store.FamilyBookings(), reserver, store.TxManager(), locker.NewLocalLocker(), time.Second, publisher, m, log)
	return &testEnv{store: store, reserver: reserver, publisher: publisher, service: service}
}

// book сохраняет семейную запись из двух позиций и резервирует их тики
func (e *testEnv) book(t *testing.T, email string) *domain.FamilyBooking {
	t.Helper()
	ctx := context.Background()

	b, err := e.store.FamilyBookings().Create(ctx, &domain.FamilyBooking{
		Customer:    domain.Customer{Name: "Jane", Email: email, Phone: "+10000000000"},
		SalonID:     1,
		BookingDate: testDate,
		Items: []domain.FamilyBookingItem{
			{Member: domain.FamilyMember{Name: "Jane"}, ServiceName: "Haircut", ServicePrice: 25, ProfessionalID: ptr.Ptr(int64(1)), StartTime: "10:00", EndTime: "10:45", Status: domain.StatusConfirmed},
			{Member: domain.FamilyMember{Name: "Tom"}, ServiceName: "Kids haircut", ServicePrice: 15, ProfessionalID: ptr.Ptr(int64(2)), StartTime: "10:00", EndTime: "10:30", Status: domain.StatusConfirmed},
		},
		TotalPrice: 40,
		Status:     domain.StatusConfirmed,
	})
	require.NoError(t, err)

	for _, item := range b.Items {
		_, err := e.reserver.Reserve(ctx, *item.ProfessionalID, testDate, item.StartTime, item.EndTime, b.Owner())
		require.NoError(t, err)
	}
	return b
}

func (e *testEnv) bookedTicks(t *testing.T, professionalID int64) int {
	t.Helper()

	ticks, err := e.store.TimeSlots().GetByProfessionalAndDate(context.Background(), professionalID, testDate)
	require.NoError(t, err)

	n := 0
	for _, tick := range ticks {
		if tick.IsBooked {
			n++
		}
	}
	return n
}

func TestService_Cancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	b := env.book(t, "jane@example.com")

	_, err := env.reserver.Reserve(ctx, 1, testDate, "12:00", "12:30", domain.AppointmentOwner(7))
	require.NoError(t, err)

	resp, err := env.service.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	for _, item := range resp.Appointments {
		assert.Equal(t, "cancelled", item.Status)
	}

	// тики обычной записи не тронуты
	assert.Equal(t, 6, env.bookedTicks(t, 1))
	assert.Zero(t, env.bookedTicks(t, 2))

	stored, err := env.store.FamilyBookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, domain.StatusCancelled, stored.Items[1].Status)

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, events.TypeFamilyBookingCancelled, env.publisher.events[0].Type)

	_, err = env.service.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = env.service.Cancel(ctx, 999)
	assert.ErrorIs(t, err, ErrFamilyBookingNotFound)
}

func TestService_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	b := env.book(t, "jane@example.com")

	got, err := env.service.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", got.BookingDate)
	assert.Equal(t, 40.0, got.TotalPrice)
	require.Len(t, got.Appointments, 2)
	assert.Equal(t, "Tom", got.Appointments[1].FamilyMember.Name)

	_, err = env.service.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrFamilyBookingNotFound)

	list, err := env.service.ListByCustomer(ctx, domain.CustomerFilter{Email: "JANE@example.com"})
	require.NoError(t, err)
	assert.Len(t, list.Bookings, 1)

	list, err = env.service.ListByCustomer(ctx, domain.CustomerFilter{Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Empty(t, list.Bookings)

	_, err = env.service.ListByCustomer(ctx, domain.CustomerFilter{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
