package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that cannot be changed anymore
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Customer контактные данные клиента
type Customer struct {
	Name  string
	Phone string
	Email string
}

// ServiceLineItem снимок услуги на момент записи
type ServiceLineItem struct {
	ServiceID       *int64
	Name            string
	Price           float64
	Duration        string // как в каталоге: "1h 30min"
	DurationMinutes int
}

// Appointment represents a customer's visit to a salon
type Appointment struct {
	ID             int64
	SalonID        int64
	ProfessionalID *int64 // nil = любой мастер, тики не резервируются
	Services       []ServiceLineItem
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Customer       Customer
	Status         AppointmentStatus
	Notes          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDurationMinutes сумма длительностей всех услуг
func (a *Appointment) TotalDurationMinutes() int {
	total := 0
	for _, s := range a.Services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice сумма цен всех услуг
func (a *Appointment) TotalPrice() float64 {
	total := 0.0
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

// ComputeEnd возвращает StartTime + суммарная длительность
func (a *Appointment) ComputeEnd() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.TotalDurationMinutes())
}

// Owner владелец тиков для этой записи
func (a *Appointment) Owner() TickOwner {
	return AppointmentOwner(a.ID)
}

// HoldsTicks returns true if the appointment is expected to own ticks
func (a *Appointment) HoldsTicks() bool {
	return a.ProfessionalID != nil && a.IsActive()
}

// IsActive returns true if the appointment is not cancelled
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanChangeStatus returns true if the status may still be updated
func (a *Appointment) CanChangeStatus() bool {
	return !a.Status.IsTerminal()
}

// CanBeRescheduled returns true if the appointment can be moved to another time
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// AppointmentsFilter фильтр записей салона
type AppointmentsFilter struct {
	SalonID        int64      // Обязательный параметр
	Date           *time.Time // Дата (опционально)
	ProfessionalID *int64     // Мастер (опционально)
}

// CustomerFilter поиск по контактам клиента, достаточно одного поля
type CustomerFilter struct {
	Email string
	Phone string
}

// IsEmpty returns true if no search criteria were given
func (f CustomerFilter) IsEmpty() bool {
	return f.Email == "" && f.Phone == ""
}
