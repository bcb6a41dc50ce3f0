package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/familybooking"
)

type FamilyBookingRepository struct {
	store *Store
}

func (r *FamilyBookingRepository) Create(ctx context.Context, b *domain.FamilyBooking) (*domain.FamilyBooking, error) {
	defer r.store.lock(ctx)()
	st := r.store.st

	st.nextFamilyBookingID++
	now := time.Now()

	b.ID = st.nextFamilyBookingID
	b.BookingDate = domain.DateOnly(b.BookingDate)
	b.CreatedAt = now
	b.UpdatedAt = now

	for i := range b.Items {
		st.nextItemID++
		b.Items[i].ID = st.nextItemID
		b.Items[i].FamilyBookingID = b.ID
		b.Items[i].Position = i
	}

	st.familyBookings[b.ID] = cloneFamilyBooking(b)
	return b, nil
}

func (r *FamilyBookingRepository) GetByID(ctx context.Context, id int64) (*domain.FamilyBooking, error) {
	defer r.store.lock(ctx)()

	b, ok := r.store.st.familyBookings[id]
	if !ok {
		return nil, familybooking.ErrFamilyBookingNotFound
	}
	return cloneFamilyBooking(b), nil
}

func (r *FamilyBookingRepository) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) ([]*domain.FamilyBooking, error) {
	defer r.store.lock(ctx)()

	result := make([]*domain.FamilyBooking, 0)
	for _, b := range r.store.st.familyBookings {
		if (filter.Email != "" && strings.EqualFold(b.Customer.Email, filter.Email)) ||
			(filter.Phone != "" && b.Customer.Phone == filter.Phone) {
			result = append(result, cloneFamilyBooking(b))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.After(result[j].BookingDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *FamilyBookingRepository) UpdateStatuses(ctx context.Context, b *domain.FamilyBooking) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.st.familyBookings[b.ID]
	if !ok {
		return familybooking.ErrFamilyBookingNotFound
	}

	stored.Status = b.Status
	stored.UpdatedAt = time.Now()

	statuses := make(map[int64]domain.AppointmentStatus, len(b.Items))
	for _, item := range b.Items {
		statuses[item.ID] = item.Status
	}
	for i := range stored.Items {
		if status, ok := statuses[stored.Items[i].ID]; ok {
			stored.Items[i].Status = status
		}
	}
	return nil
}
