package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date           string `json:"date" validate:"required"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime"`
	ProfessionalID *int64 `json:"professionalId" validate:"omitempty,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(id int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}

	var end types.TimeString
	if r.EndTime != "" {
		end, err = types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid endTime: %w", err)
		}
	}

	return &rescheduleAppointment.Request{
		AppointmentID:  id,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		ProfessionalID: r.ProfessionalID,
	}, nil
}
