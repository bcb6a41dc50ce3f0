package get_salon_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/duration"
)

// UseCase use case для получения свободного времени всех мастеров салона
type UseCase struct {
	professionalRepo ProfessionalRepository
	generator        SlotGenerator
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(professionalRepo ProfessionalRepository, generator SlotGenerator, logger Logger) *UseCase {
	return &UseCase{
		professionalRepo: professionalRepo,
		generator:        generator,
		logger:           logger,
	}
}

// Execute выполняет use case получения свободного времени салона
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSalonAvailability: salon=%d, date=%s", req.SalonID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSalonAvailability: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	required := duration.ParsePtr(req.Duration)

	// 2. Доступные мастера салона
	professionals, err := uc.professionalRepo.ListSalonProfessionals(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetSalonAvailability: failed to list professionals of salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to list professionals: %v", ErrInternal, err)
	}

	resp := &Response{
		SalonID:         req.SalonID,
		Date:            date,
		RequiredMinutes: required,
		Professionals:   make([]ProfessionalSlots, 0, len(professionals)),
	}

	// 3. Сетка и виртуальные слоты по каждому мастеру
	for _, p := range professionals {
		ticks, err := uc.generator.EnsureDay(ctx, p.ID, date)
		if err != nil {
			uc.logger.Error("GetSalonAvailability: failed to load ticks for professional id=%d: %v", p.ID, err)
			return nil, fmt.Errorf("%w: failed to load ticks: %v", ErrInternal, err)
		}

		resp.Professionals = append(resp.Professionals, ProfessionalSlots{
			ProfessionalID:   p.ID,
			ProfessionalName: p.Name,
			Slots:            slots.FindVirtualSlots(ticks, required),
		})
	}

	uc.logger.Info("GetSalonAvailability: salon=%d, %d professionals", req.SalonID, len(resp.Professionals))
	return resp, nil
}
