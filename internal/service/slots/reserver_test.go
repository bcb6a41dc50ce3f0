package slots

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func newTestReserver(store *memory.Store, m Metrics) *Reserver {
	gen := NewGenerator(store.TimeSlots(), store.Catalog(), DefaultWindow(), m, logger.Nop())
	return NewReserver(gen, store.TimeSlots(), m, logger.Nop())
}

func bookedTicks(t *testing.T, store *memory.Store, professionalID int64) []domain.Tick {
	t.Helper()

	ticks, err := store.TimeSlots().GetByProfessionalAndDate(context.Background(), professionalID, testDate)
	require.NoError(t, err)

	booked := make([]domain.Tick, 0)
	for _, tick := range ticks {
		if tick.IsBooked {
			booked = append(booked, tick)
		}
	}
	return booked
}

func TestReserver_ReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newCountingMetrics()
	r := newTestReserver(store, m)
	owner := domain.AppointmentOwner(10)

	ids, err := r.Reserve(ctx, 1, testDate, "10:00", "10:45", owner)
	require.NoError(t, err)
	assert.Len(t, ids, 9)

	booked := bookedTicks(t, store, 1)
	require.Len(t, booked, 9)
	assert.Equal(t, types.TimeString("10:00"), booked[0].StartTime)
	assert.Equal(t, types.TimeString("10:45"), booked[8].EndTime)
	for _, tick := range booked {
		assert.True(t, tick.OwnedBy(owner))
	}

	released, err := r.Release(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(9), released)
	assert.Empty(t, bookedTicks(t, store, 1))
	assert.Equal(t, 1, m.reservations[reservationReserved])
}

func TestReserver_OverlapIsRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	m := newCountingMetrics()
	r := newTestReserver(store, m)

	_, err := r.Reserve(ctx, 1, testDate, "10:00", "10:30", domain.AppointmentOwner(1))
	require.NoError(t, err)

	_, err = r.Reserve(ctx, 1, testDate, "10:25", "10:40", domain.AppointmentOwner(2))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, r.CheckFree(ctx, 1, testDate, "10:25", "10:40"), ErrSlotNotAvailable)

	// соседний интервал и другой мастер не затронуты
	require.NoError(t, r.CheckFree(ctx, 1, testDate, "10:30", "11:00"))
	_, err = r.Reserve(ctx, 2, testDate, "10:00", "10:30", domain.AppointmentOwner(3))
	require.NoError(t, err)

	assert.Len(t, bookedTicks(t, store, 1), 6)
	assert.Equal(t, 1, m.reservations[reservationConflict])
	assert.Equal(t, 2, m.reservations[reservationReserved])
}

func TestReserver_FailedReserveLeavesNoTicks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	r := newTestReserver(store, nil)

	_, err := r.Reserve(ctx, 1, testDate, "12:00", "12:05", domain.AppointmentOwner(1))
	require.NoError(t, err)

	_, err = r.Reserve(ctx, 1, testDate, "11:30", "12:30", domain.AppointmentOwner(2))
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	booked := bookedTicks(t, store, 1)
	require.Len(t, booked, 1)
	assert.True(t, booked[0].OwnedBy(domain.AppointmentOwner(1)))
}

func TestReserver_InvalidRequests(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	r := newTestReserver(store, nil)

	tests := []struct {
		name      string
		profID    int64
		start     types.TimeString
		end       types.TimeString
		owner     domain.TickOwner
		wantError error
	}{
		{name: "no owner", profID: 1, start: "10:00", end: "10:30", owner: domain.TickOwner{}, wantError: ErrInvalidOwner},
		{name: "start after end", profID: 1, start: "11:00", end: "10:30", owner: domain.AppointmentOwner(1), wantError: ErrInvalidInterval},
		{name: "empty interval", profID: 1, start: "10:00", end: "10:00", owner: domain.AppointmentOwner(1), wantError: ErrInvalidInterval},
		{name: "before opening", profID: 1, start: "08:30", end: "09:30", owner: domain.AppointmentOwner(1), wantError: ErrSlotNotAvailable},
		{name: "after closing", profID: 1, start: "17:45", end: "18:15", owner: domain.AppointmentOwner(1), wantError: ErrSlotNotAvailable},
		{name: "unknown professional", profID: 99, start: "10:00", end: "10:30", owner: domain.AppointmentOwner(1), wantError: ErrProfessionalNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Reserve(ctx, tt.profID, testDate, tt.start, tt.end, tt.owner)
			assert.ErrorIs(t, err, tt.wantError)
		})
	}
	assert.Empty(t, bookedTicks(t, store, 1))
}

func TestReserver_ConcurrentReserveSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	r := newTestReserver(store, nil)
	txManager := store.TxManager()

	const attempts = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := txManager.DoSerializable(ctx, func(txCtx context.Context) error {
				_, err := r.Reserve(txCtx, 1, testDate, "14:00", "14:30", domain.AppointmentOwner(id))
				return err
			})

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
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, bookedTicks(t, store, 1), 6)
}
