package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type TimeSlotRepository struct {
	store *Store
}

func (r *TimeSlotRepository) BulkCreate(ctx context.Context, ticks []domain.Tick) (int64, error) {
	defer r.store.lock(ctx)()
	st := r.store.st

	var inserted int64
	now := time.Now()

	for _, t := range ticks {
		key := tickKey{
			professionalID: t.ProfessionalID,
			date:           t.Date.Format(domain.DateFormat),
			start:          t.StartTime,
			end:            t.EndTime,
		}
		if _, exists := st.tickIndex[key]; exists {
			continue
		}

		st.nextTickID++
		c := t
		c.ID = st.nextTickID
		c.Date = domain.DateOnly(t.Date)
		c.IsBooked = false
		c.AppointmentID = nil
		c.FamilyBookingID = nil
		c.CreatedAt = now
		c.UpdatedAt = now

		st.ticks[c.ID] = &c
		st.tickIndex[key] = c.ID
		inserted++
	}

	return inserted, nil
}

func (r *TimeSlotRepository) GetByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]domain.Tick, error) {
	defer r.store.lock(ctx)()
	return r.filter(func(t *domain.Tick) bool {
		return t.ProfessionalID == professionalID && domain.SameDate(t.Date, date)
	}), nil
}

func (r *TimeSlotRepository) GetOverlapping(
	ctx context.Context,
	professionalID int64,
	date time.Time,
	start, end types.TimeString,
) ([]domain.Tick, error) {
	defer r.store.lock(ctx)()
	return r.filter(func(t *domain.Tick) bool {
		return t.ProfessionalID == professionalID && domain.SameDate(t.Date, date) && t.Overlaps(start, end)
	}), nil
}

func (r *TimeSlotRepository) MarkBooked(ctx context.Context, ids []int64, owner domain.TickOwner) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if !owner.IsValid() {
		return 0, timeslot.ErrInvalidOwner
	}

	defer r.store.lock(ctx)()

	var affected int64
	now := time.Now()
	for _, id := range ids {
		t, ok := r.store.st.ticks[id]
		if !ok || t.IsBooked {
			continue
		}
		t.IsBooked = true
		t.AppointmentID = cloneInt64(owner.AppointmentID)
		t.FamilyBookingID = cloneInt64(owner.FamilyBookingID)
		t.UpdatedAt = now
		affected++
	}
	return affected, nil
}

func (r *TimeSlotRepository) ReleaseByOwner(ctx context.Context, owner domain.TickOwner) (int64, error) {
	if !owner.IsValid() {
		return 0, timeslot.ErrInvalidOwner
	}

	defer r.store.lock(ctx)()

	var released int64
	now := time.Now()
	for _, t := range r.store.st.ticks {
		if !t.OwnedBy(owner) {
			continue
		}
		t.IsBooked = false
		t.AppointmentID = nil
		t.FamilyBookingID = nil
		t.UpdatedAt = now
		released++
	}
	return released, nil
}

// filter вызывается под блокировкой хранилища
func (r *TimeSlotRepository) filter(match func(t *domain.Tick) bool) []domain.Tick {
	result := make([]domain.Tick, 0)
	for _, t := range r.store.st.ticks {
		if match(t) {
			result = append(result, *cloneTick(t))
		}
	}
	sortTicks(result)
	return result
}
