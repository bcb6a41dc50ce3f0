package slots

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/duration"
)

// FindVirtualSlots находит все непрерывные серии свободных тиков длиной не меньше requiredMinutes
//
// ticks отсортированы по времени начала и относятся к одному мастеру и дате.
// Для каждого свободного тика i серия расширяется вперед, пока набранная длительность
// меньше requiredMinutes. Разрыв между тиками или занятый тик до набора нужной длительности
// отбрасывает кандидата целиком. Кандидаты с разных стартов могут пересекаться.
//
// EndTime слота = StartTime + requiredMinutes, а не конец последнего тика.
func FindVirtualSlots(ticks []domain.Tick, requiredMinutes int) []domain.VirtualSlot {
	if requiredMinutes <= 0 {
		requiredMinutes = duration.DefaultMinutes
	}

	result := make([]domain.VirtualSlot, 0)

	for i := range ticks {
		if ticks[i].IsBooked {
			continue
		}

		ids, ok := collectRun(ticks, i, requiredMinutes)
		if !ok {
			continue
		}

		start := ticks[i].StartTime
		end, err := start.AddMinutes(requiredMinutes)
		if err != nil {
			end = ticks[i+len(ids)-1].EndTime
		}

		result = append(result, domain.VirtualSlot{
			ID:              domain.VirtualSlotID(ids),
			TickIDs:         ids,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: requiredMinutes,
		})
	}

	return result
}

// collectRun возвращает id тиков серии, начинающейся с from, если она набрала requiredMinutes
func collectRun(ticks []domain.Tick, from, requiredMinutes int) ([]int64, bool) {
	ids := make([]int64, 0, requiredMinutes/max(ticks[from].DurationMinutes(), 1)+1)
	total := 0

	for j := from; j < len(ticks); j++ {
		current := &ticks[j]
		if current.IsBooked {
			return nil, false
		}
		if j > from && current.StartTime != ticks[j-1].EndTime {
			return nil, false
		}

		ids = append(ids, current.ID)
		total += current.DurationMinutes()

		if total >= requiredMinutes {
			return ids, true
		}
	}

	return nil, false
}
