package get_time_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_time_slots"
)

// TickResponse один тик сетки
type TickResponse struct {
	ID              int64  `json:"id"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	IsBooked        bool   `json:"isBooked"`
	AppointmentID   *int64 `json:"appointmentId,omitempty"`
	FamilyBookingID *int64 `json:"familyBookingId,omitempty"`
}

// VirtualSlotResponse непрерывная цепочка свободных тиков
type VirtualSlotResponse struct {
	ID              string  `json:"id"`
	TickIDs         []int64 `json:"tickIds"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
}

// TimeSlotsResponse HTTP response model
type TimeSlotsResponse struct {
	ProfessionalID  int64                 `json:"professionalId"`
	Date            string                `json:"date"`
	Slots           []TickResponse        `json:"slots"`
	RequiredMinutes int                   `json:"requiredMinutes,omitempty"`
	VirtualSlots    []VirtualSlotResponse `json:"virtualSlots,omitempty"`
}

// ToUseCaseRequest собирает запрос use case из query параметров
func ToUseCaseRequest(professionalIDStr, dateStr, durationStr string) (*getTimeSlots.Request, error) {
	professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid professionalId: %w", err)
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	req := &getTimeSlots.Request{
		ProfessionalID: professionalID,
		Date:           date,
	}
	if durationStr != "" {
		req.Duration = &durationStr
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getTimeSlots.Response) *TimeSlotsResponse {
	out := &TimeSlotsResponse{
		ProfessionalID:  resp.ProfessionalID,
		Date:            resp.Date.Format(domain.DateFormat),
		Slots:           make([]TickResponse, 0, len(resp.Ticks)),
		RequiredMinutes: resp.RequiredMinutes,
	}

	for _, t := range resp.Ticks {
		out.Slots = append(out.Slots, TickResponse{
			ID:              t.ID,
			StartTime:       t.StartTime.String(),
			EndTime:         t.EndTime.String(),
			IsBooked:        t.IsBooked,
			AppointmentID:   t.AppointmentID,
			FamilyBookingID: t.FamilyBookingID,
		})
	}

	if resp.VirtualSlots != nil {
		out.VirtualSlots = FromVirtualSlots(resp.VirtualSlots)
	}
	return out
}

// FromVirtualSlots конвертирует виртуальные слоты, пустой список остается пустым массивом
func FromVirtualSlots(list []domain.VirtualSlot) []VirtualSlotResponse {
	out := make([]VirtualSlotResponse, 0, len(list))
	for _, vs := range list {
		out = append(out, VirtualSlotResponse{
			ID:              vs.ID,
			TickIDs:         vs.TickIDs,
			StartTime:       vs.StartTime.String(),
			EndTime:         vs.EndTime.String(),
			DurationMinutes: vs.DurationMinutes,
		})
	}
	return out
}
