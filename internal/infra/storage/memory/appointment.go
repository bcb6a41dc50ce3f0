package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
)

type AppointmentRepository struct {
	store *Store
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	defer r.store.lock(ctx)()
	st := r.store.st

	st.nextAppointmentID++
	now := time.Now()

	a.ID = st.nextAppointmentID
	a.Date = domain.DateOnly(a.Date)
	a.CreatedAt = now
	a.UpdatedAt = now

	st.appointments[a.ID] = cloneAppointment(a)
	return a, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	defer r.store.lock(ctx)()

	a, ok := r.store.st.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return cloneAppointment(a), nil
}

func (r *AppointmentRepository) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Appointment, error) {
	defer r.store.lock(ctx)()

	result := r.filter(func(a *domain.Appointment) bool {
		return (filter.Email != "" && strings.EqualFold(a.Customer.Email, filter.Email)) ||
			(filter.Phone != "" && a.Customer.Phone == filter.Phone)
	})
	sortNewestFirst(result)
	return result, nil
}

func (r *AppointmentRepository) ListBySalon(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	defer r.store.lock(ctx)()

	result := r.filter(func(a *domain.Appointment) bool {
		if a.SalonID != filter.SalonID {
			return false
		}
		if filter.Date != nil && !domain.SameDate(a.Date, *filter.Date) {
			return false
		}
		if filter.ProfessionalID != nil && (a.ProfessionalID == nil || *a.ProfessionalID != *filter.ProfessionalID) {
			return false
		}
		return true
	})

	if filter.Date != nil {
		sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	} else {
		sortNewestFirst(result)
	}
	return result, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.st.appointments[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}

	stored.ProfessionalID = cloneInt64(a.ProfessionalID)
	stored.Date = domain.DateOnly(a.Date)
	stored.StartTime = a.StartTime
	stored.EndTime = a.EndTime
	stored.Status = a.Status
	stored.UpdatedAt = time.Now()

	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.st.appointments[id]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.st.appointments[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.store.st.appointments, id)
	return nil
}

func (r *AppointmentRepository) filter(match func(a *domain.Appointment) bool) []*domain.Appointment {
	result := make([]*domain.Appointment, 0)
	for _, a := range r.store.st.appointments {
		if match(a) {
			result = append(result, cloneAppointment(a))
		}
	}
	return result
}

func sortNewestFirst(list []*domain.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].StartTime > list[j].StartTime
	})
}
