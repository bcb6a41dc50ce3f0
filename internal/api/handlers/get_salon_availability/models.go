package get_salon_availability

import (
	"fmt"
	"strconv"
	"time"

	getTimeSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_time_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getSalonAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_salon_availability"
)

// ProfessionalSlotsResponse свободные окна мастера
type ProfessionalSlotsResponse struct {
	ProfessionalID   int64                                     `json:"professionalId"`
	ProfessionalName string                                    `json:"professionalName"`
	Slots            []getTimeSlotsHandler.VirtualSlotResponse `json:"slots"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SalonID         int64                       `json:"salonId"`
	Date            string                      `json:"date"`
	RequiredMinutes int                         `json:"requiredMinutes"`
	Professionals   []ProfessionalSlotsResponse `json:"professionals"`
}

// ToUseCaseRequest собирает запрос use case из query параметров
func ToUseCaseRequest(salonIDStr, dateStr, durationStr string) (*getSalonAvailability.Request, error) {
	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid salonId: %w", err)
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	req := &getSalonAvailability.Request{SalonID: salonID, Date: date}
	if durationStr != "" {
		req.Duration = &durationStr
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSalonAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		SalonID:         resp.SalonID,
		Date:            resp.Date.Format(domain.DateFormat),
		RequiredMinutes: resp.RequiredMinutes,
		Professionals:   make([]ProfessionalSlotsResponse, 0, len(resp.Professionals)),
	}
	for _, p := range resp.Professionals {
		out.Professionals = append(out.Professionals, ProfessionalSlotsResponse{
			ProfessionalID:   p.ProfessionalID,
			ProfessionalName: p.ProfessionalName,
			Slots:            getTimeSlotsHandler.FromVirtualSlots(p.Slots),
		})
	}
	return out
}
