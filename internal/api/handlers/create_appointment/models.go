package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email" validate:"omitempty,email"`
	Appointments []AppointmentEntry `json:"appointments" validate:"required,min=1,dive"`
}

// AppointmentEntry одна запись в запросе
// Price принимается для совместимости, цена всегда берется из каталога
type AppointmentEntry struct {
	SalonID        int64    `json:"salonId" validate:"required,gt=0"`
	ProfessionalID *int64   `json:"professionalId" validate:"omitempty,gt=0"`
	ServiceID      *int64   `json:"serviceId" validate:"omitempty,gt=0"`
	ServiceName    string   `json:"serviceName"`
	Price          *float64 `json:"price,omitempty"`
	Duration       string   `json:"duration"`
	Date           string   `json:"date" validate:"required"`      // "2025-10-15"
	StartTime      string   `json:"startTime" validate:"required"` // "10:00"
	Notes          *string  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	entries := make([]createAppointment.Entry, 0, len(r.Appointments))
	for i, a := range r.Appointments {
		date, err := time.Parse(domain.DateFormat, a.Date)
		if err != nil {
			return nil, fmt.Errorf("appointment #%d: invalid date: %w", i+1, err)
		}
		start, err := types.NewTimeStringFromString(a.StartTime)
		if err != nil {
			return nil, fmt.Errorf("appointment #%d: invalid startTime: %w", i+1, err)
		}

		entries = append(entries, createAppointment.Entry{
			SalonID:        a.SalonID,
			ProfessionalID: a.ProfessionalID,
			ServiceID:      a.ServiceID,
			ServiceName:    a.ServiceName,
			Duration:       a.Duration,
			Date:           date,
			StartTime:      start,
			Notes:          a.Notes,
		})
	}

	return &createAppointment.Request{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Entries: entries,
	}, nil
}
