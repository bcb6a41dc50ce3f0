package create_appointment

import (
	"context"
	"errors"
	"sync"
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
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var testDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type testEnv struct {
	store     *memory.Store
	publisher *recordingPublisher
	uc        *UseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.AddService(domain.Service{ID: 1, SalonID: 1, Name: "Haircut", Price: 25, Duration: "45min"})
	store.AddService(domain.Service{ID: 2, SalonID: 1, Name: "Consultation", Price: 10})
	store.AddService(domain.Service{ID: 3, SalonID: 2, Name: "Manicure", Price: 30, Duration: "1h"})
	store.AddService(domain.Service{ID: 4, SalonID: 1, Name: "Fringe trim", Price: 12, Duration: "35min"})
	store.AddProfessional(domain.Professional{ID: 1, SalonID: 1, Name: "Anna", IsAvailable: true})
	store.AddProfessional(domain.Professional{ID: 2, SalonID: 1, Name: "Maria", IsAvailable: true})
	store.AddProfessional(domain.Professional{ID: 3, SalonID: 2, Name: "Olga", IsAvailable: true})

	var m *metrics.Metrics
	log := logger.Nop()
	gen := slots.NewGenerator(store.TimeSlots(), store.Catalog(), slots.DefaultWindow(), m, log)
	reserver := slots.NewReserver(gen, store.TimeSlots(), m, log)
	publisher := &recordingPublisher{}

	uc := NewUseCase(
		store.Appointments(),
		store.Catalog(),
		reserver,
		store.TxManager(),
		locker.NewLocalLocker(),
		time.Second,
		publisher,
		m,
		log,
	)
	return &testEnv{store: store, publisher: publisher, uc: uc}
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

func entry(professionalID int64, serviceID int64, start string) Entry {
	return Entry{
		SalonID:        1,
		ProfessionalID: ptr.Ptr(professionalID),
		ServiceID:      ptr.Ptr(serviceID),
		Date:           testDate,
		StartTime:      types.MustTimeString(start),
	}
}

func request(entries ...Entry) *Request {
	return &Request{Name: "Jane", Phone: "+10000000000", Entries: entries}
}

func TestExecute_CreatesAppointmentAndReservesTicks(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.uc.Execute(context.Background(), request(entry(1, 1, "10:00")))
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	a := resp.Appointments[0]
	assert.NotZero(t, a.ID)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, types.TimeString("10:45"), a.EndTime)
	assert.Equal(t, 25.0, a.TotalPrice())
	assert.Equal(t, 45, a.TotalDurationMinutes())

	booked := env.bookedTicks(t, 1)
	require.Len(t, booked, 9)
	for _, tick := range booked {
		assert.True(t, tick.OwnedBy(a.Owner()))
	}

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, events.TypeAppointmentCreated, env.publisher.events[0].Type)
	assert.Equal(t, a.ID, env.publisher.events[0].AggregateID)
}

func TestExecute_BookedTicksHideOverlappingSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.uc.Execute(ctx, request(entry(1, 4, "09:00")))
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:35"), resp.Appointments[0].EndTime)

	booked := env.bookedTicks(t, 1)
	require.Len(t, booked, 7)
	assert.Equal(t, types.TimeString("09:00"), booked[0].StartTime)
	assert.Equal(t, types.TimeString("09:35"), booked[len(booked)-1].EndTime)

	ticks, err := env.store.TimeSlots().GetByProfessionalAndDate(ctx, 1, testDate)
	require.NoError(t, err)

	var fromTen []domain.VirtualSlot
	for _, s := range slots.FindVirtualSlots(ticks, 10) {
		// ни один кандидат не пересекается с 09:00-09:35
		assert.False(t, s.StartTime.IsBefore("09:35") && s.EndTime.IsAfter("09:00"),
			"slot %s-%s overlaps the booking", s.StartTime, s.EndTime)
		if !s.StartTime.IsBefore("09:10") {
			fromTen = append(fromTen, s)
		}
	}

	require.NotEmpty(t, fromTen)
	assert.Equal(t, types.TimeString("09:35"), fromTen[0].StartTime)
	assert.Equal(t, types.TimeString("09:45"), fromTen[0].EndTime)
}

func TestExecute_ServiceResolution(t *testing.T) {
	tests := []struct {
		name         string
		entry        Entry
		wantName     string
		wantMinutes  int
		wantEnd      types.TimeString
		wantErr      error
		wantDuration string
	}{
		{
			name:         "by name case insensitive",
			entry:        Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceName: "haircut", Date: testDate, StartTime: "11:00"},
			wantName:     "Haircut",
			wantMinutes:  45,
			wantEnd:      "11:45",
			wantDuration: "45min",
		},
		{
			name:         "unknown id falls back to name",
			entry:        Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceID: ptr.Ptr(int64(99)), ServiceName: "Haircut", Date: testDate, StartTime: "11:00"},
			wantName:     "Haircut",
			wantMinutes:  45,
			wantEnd:      "11:45",
			wantDuration: "45min",
		},
		{
			name:         "client duration used when catalog has none",
			entry:        Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceID: ptr.Ptr(int64(2)), Duration: "20 mins", Date: testDate, StartTime: "11:00"},
			wantName:     "Consultation",
			wantMinutes:  20,
			wantEnd:      "11:20",
			wantDuration: "20 mins",
		},
		{
			name:         "default duration",
			entry:        Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceID: ptr.Ptr(int64(2)), Date: testDate, StartTime: "11:00"},
			wantName:     "Consultation",
			wantMinutes:  30,
			wantEnd:      "11:30",
			wantDuration: "",
		},
		{
			name:    "service of another salon",
			entry:   Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceID: ptr.Ptr(int64(3)), Date: testDate, StartTime: "11:00"},
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown name",
			entry:   Entry{SalonID: 1, ProfessionalID: ptr.Ptr(int64(1)), ServiceName: "Massage", Date: testDate, StartTime: "11:00"},
			wantErr: ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			resp, err := env.uc.Execute(context.Background(), request(tt.entry))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, env.bookedTicks(t, 1))
				return
			}
			require.NoError(t, err)

			a := resp.Appointments[0]
			require.Len(t, a.Services, 1)
			assert.Equal(t, tt.wantName, a.Services[0].Name)
			assert.Equal(t, tt.wantDuration, a.Services[0].Duration)
			assert.Equal(t, tt.wantMinutes, a.TotalDurationMinutes())
			assert.Equal(t, tt.wantEnd, a.EndTime)
			assert.Len(t, env.bookedTicks(t, 1), tt.wantMinutes/5)
		})
	}
}

func TestExecute_OverlapIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.Execute(ctx, request(entry(1, 1, "10:00")))
	require.NoError(t, err)

	_, err = env.uc.Execute(ctx, request(entry(1, 1, "10:30")))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// конец одной записи совпадает с началом другой
	_, err = env.uc.Execute(ctx, request(entry(1, 1, "10:45")))
	require.NoError(t, err)

	assert.Len(t, env.bookedTicks(t, 1), 18)
}

func TestExecute_AllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.Execute(ctx, request(entry(2, 1, "12:00")))
	require.NoError(t, err)
	env.publisher.events = nil

	_, err = env.uc.Execute(ctx, request(
		entry(1, 1, "10:00"),
		entry(2, 1, "12:15"),
	))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	assert.Empty(t, env.bookedTicks(t, 1))
	assert.Len(t, env.bookedTicks(t, 2), 9)
	assert.Empty(t, env.publisher.events)

	list, err := env.store.Appointments().ListByCustomer(ctx, domain.CustomerFilter{Phone: "+10000000000"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExecute_SeveralEntries(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.uc.Execute(context.Background(), request(
		entry(1, 1, "10:00"),
		entry(2, 1, "10:00"),
		entry(1, 2, "11:00"),
	))
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 3)

	assert.Len(t, env.bookedTicks(t, 1), 9+6)
	assert.Len(t, env.bookedTicks(t, 2), 9)
	assert.Len(t, env.publisher.events, 3)
}

func TestExecute_WithoutProfessional(t *testing.T) {
	env := newTestEnv(t)

	e := entry(1, 1, "10:00")
	e.ProfessionalID = nil

	resp, err := env.uc.Execute(context.Background(), request(e))
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Nil(t, resp.Appointments[0].ProfessionalID)
	assert.Empty(t, env.bookedTicks(t, 1))
}

func TestExecute_SlotErrors(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{name: "unknown professional", entry: entry(42, 1, "10:00"), wantErr: ErrProfessionalNotFound},
		{name: "professional of another salon", entry: entry(3, 1, "10:00"), wantErr: ErrInvalidInput},
		{name: "before opening", entry: entry(1, 1, "08:30"), wantErr: ErrSlotNotAvailable},
		{name: "runs past closing", entry: entry(1, 1, "17:30"), wantErr: ErrSlotNotAvailable},
		{name: "ends after midnight", entry: entry(1, 1, "23:30"), wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.uc.Execute(context.Background(), request(tt.entry))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.bookedTicks(t, 1))
		})
	}
}

func TestExecute_Validation(t *testing.T) {
	tooMany := make([]Entry, domain.MaxAppointmentsPerCall+1)
	for i := range tooMany {
		tooMany[i] = entry(1, 1, "10:00")
	}

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no entries", req: request()},
		{name: "too many entries", req: request(tooMany...)},
		{name: "no contacts", req: &Request{Name: "Jane", Entries: []Entry{entry(1, 1, "10:00")}}},
		{name: "no service", req: request(Entry{SalonID: 1, Date: testDate, StartTime: "10:00"})},
		{name: "no salon", req: request(Entry{ServiceID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "10:00"})},
		{name: "no date", req: request(Entry{SalonID: 1, ServiceID: ptr.Ptr(int64(1)), StartTime: "10:00"})},
		{name: "no start", req: request(Entry{SalonID: 1, ServiceID: ptr.Ptr(int64(1)), Date: testDate})},
		{name: "bad start", req: request(Entry{SalonID: 1, ServiceID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "25:00"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_PublishFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker is down")

	resp, err := env.uc.Execute(context.Background(), request(entry(1, 1, "10:00")))
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Len(t, env.bookedTicks(t, 1), 9)
}

func TestExecute_ConcurrentBookingsSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const attempts = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.Execute(ctx, request(entry(1, 1, "15:00")))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, env.bookedTicks(t, 1), 9)
}
