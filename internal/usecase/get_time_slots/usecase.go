package get_time_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/duration"
)

// UseCase use case для получения тиков мастера на день
type UseCase struct {
	generator SlotGenerator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(generator SlotGenerator, logger Logger) *UseCase {
	return &UseCase{
		generator: generator,
		logger:    logger,
	}
}

// Execute возвращает сетку дня; при отсутствии сетка создается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetTimeSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	ticks, err := uc.generator.EnsureDay(ctx, req.ProfessionalID, date)
	if err != nil {
		if errors.Is(err, slots.ErrProfessionalNotFound) {
			uc.logger.Warn("GetTimeSlots: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetTimeSlots: failed to load ticks for professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to load ticks: %v", ErrInternal, err)
	}

	resp := &Response{
		ProfessionalID: req.ProfessionalID,
		Date:           date,
		Ticks:          ticks,
	}

	if req.Duration != nil {
		resp.RequiredMinutes = duration.ParsePtr(req.Duration)
		resp.VirtualSlots = slots.FindVirtualSlots(ticks, resp.RequiredMinutes)
	}

	return resp, nil
}
