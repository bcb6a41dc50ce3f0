package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/duration"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// makeTicks строит n подряд идущих 5-минутных тиков с id 1..n
func makeTicks(t *testing.T, start string, n int, booked ...int) []domain.Tick {
	t.Helper()

	bookedSet := make(map[int]bool, len(booked))
	for _, idx := range booked {
		bookedSet[idx] = true
	}

	ticks := make([]domain.Tick, 0, n)
	current := types.MustTimeString(start)
	for i := 0; i < n; i++ {
		end, err := current.AddMinutes(5)
		require.NoError(t, err)
		ticks = append(ticks, domain.Tick{
			ID:             int64(i + 1),
			ProfessionalID: 1,
			StartTime:      current,
			EndTime:        end,
			IsBooked:       bookedSet[i],
		})
		current = end
	}
	return ticks
}

func TestFindVirtualSlots_SkipsBookedTick(t *testing.T) {
	// 09:00 09:05 [09:10 занят] 09:15 09:20 09:25
	ticks := makeTicks(t, "09:00", 6, 2)

	got := FindVirtualSlots(ticks, 10)
	require.Len(t, got, 3)

	assert.Equal(t, "1_2", got[0].ID)
	assert.Equal(t, types.TimeString("09:00"), got[0].StartTime)
	assert.Equal(t, types.TimeString("09:10"), got[0].EndTime)

	assert.Equal(t, "4_5", got[1].ID)
	assert.Equal(t, types.TimeString("09:15"), got[1].StartTime)

	assert.Equal(t, "5_6", got[2].ID)
	assert.Equal(t, []int64{5, 6}, got[2].TickIDs)
	assert.Equal(t, types.TimeString("09:30"), got[2].EndTime)
	assert.Equal(t, 10, got[2].DurationMinutes)
}

func TestFindVirtualSlots_GapBreaksRun(t *testing.T) {
	ticks := makeTicks(t, "09:00", 2)
	ticks = append(ticks, domain.Tick{ID: 3, ProfessionalID: 1, StartTime: "09:15", EndTime: "09:20"})

	got := FindVirtualSlots(ticks, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "1_2", got[0].ID)
}

func TestFindVirtualSlots_EndIsStartPlusRequired(t *testing.T) {
	ticks := makeTicks(t, "09:00", 4)

	got := FindVirtualSlots(ticks, 12)
	require.Len(t, got, 2)

	assert.Equal(t, []int64{1, 2, 3}, got[0].TickIDs)
	assert.Equal(t, types.TimeString("09:12"), got[0].EndTime)
	assert.Equal(t, []int64{2, 3, 4}, got[1].TickIDs)
	assert.Equal(t, types.TimeString("09:17"), got[1].EndTime)
}

func TestFindVirtualSlots_DefaultDuration(t *testing.T) {
	ticks := makeTicks(t, "09:00", 8)

	got := FindVirtualSlots(ticks, 0)
	require.Len(t, got, 3)
	for _, slot := range got {
		assert.Equal(t, duration.DefaultMinutes, slot.DurationMinutes)
		assert.Len(t, slot.TickIDs, 6)
	}
}

func TestFindVirtualSlots_NoFit(t *testing.T) {
	assert.Empty(t, FindVirtualSlots(nil, 30))
	assert.Empty(t, FindVirtualSlots(makeTicks(t, "09:00", 3), 30))
	assert.Empty(t, FindVirtualSlots(makeTicks(t, "09:00", 6, 0, 1, 2, 3, 4, 5), 5))
}

func TestFindVirtualSlots_AllSlotsAreFree(t *testing.T) {
	ticks := makeTicks(t, "09:00", 24, 3, 10, 11, 20)
	byID := make(map[int64]domain.Tick, len(ticks))
	for _, tick := range ticks {
		byID[tick.ID] = tick
	}

	for _, slot := range FindVirtualSlots(ticks, 15) {
		total := 0
		for i, id := range slot.TickIDs {
			tick := byID[id]
			assert.False(t, tick.IsBooked, "slot %s contains booked tick %d", slot.ID, id)
			if i > 0 {
				assert.Equal(t, byID[slot.TickIDs[i-1]].EndTime, tick.StartTime)
			}
			total += tick.DurationMinutes()
		}
		assert.GreaterOrEqual(t, total, 15)
	}
}
