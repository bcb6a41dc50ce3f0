package create_family_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const operationName = "family_create"

// UseCase use case для создания семейной (групповой) записи
type UseCase struct {
	familyBookingRepo FamilyBookingRepository
	catalogRepo       CatalogRepository
	reserver          SlotReserver
	txManager         TransactionManager
	locker            Locker
	lockTTL           time.Duration
	publisher         EventPublisher
	metrics           Metrics
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	familyBookingRepo FamilyBookingRepository,
	catalogRepo CatalogRepository,
	reserver SlotReserver,
	txManager TransactionManager,
	locker Locker,
	lockTTL time.Duration,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		familyBookingRepo: familyBookingRepo,
		catalogRepo:       catalogRepo,
		reserver:          reserver,
		txManager:         txManager,
		locker:            locker,
		lockTTL:           lockTTL,
		publisher:         publisher,
		metrics:           metrics,
		logger:            logger,
	}
}

// Execute проверяет все позиции до записи и сохраняет их одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (result *domain.FamilyBooking, err error) {
	defer func() { uc.metrics.RecordBookingOperation(operationName, err) }()

	uc.logger.Info("CreateFamilyBooking: customer=%q salon=%d date=%s items=%d",
		req.Customer.Name, req.SalonID, req.BookingDate.Format(domain.DateFormat), len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateFamilyBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Услуги и цены из каталога
	booking, err := uc.buildBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Позиции одного запроса не должны пересекаться у одного мастера
	if err := findInternalOverlap(booking.Items); err != nil {
		uc.logger.Warn("CreateFamilyBooking: %v", err)
		return nil, err
	}

	unlock, err := locker.LockMany(ctx, uc.locker, uc.lockTTL, lockKeys(booking)...)
	if err != nil {
		uc.logger.Error("CreateFamilyBooking: failed to acquire slot locks: %v", err)
		return nil, fmt.Errorf("%w: acquire slot locks: %v", ErrInternal, err)
	}
	defer unlock()

	// 4. Проверяем все интервалы до любой записи
	for i := range booking.Items {
		item := &booking.Items[i]
		if !item.ReservesSlot() {
			continue
		}
		if err := uc.reserver.CheckFree(ctx, *item.ProfessionalID, booking.BookingDate, item.StartTime, item.EndTime); err != nil {
			uc.logger.Warn("CreateFamilyBooking: appointment #%d %s-%s is not free: %v", i+1, item.StartTime, item.EndTime, err)
			return nil, mapReserveError(err)
		}
	}

	// 5. Сохраняем запись и резервируем тики
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		saved, err := uc.familyBookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateFamilyBooking: failed to save family booking: %v", err)
			return fmt.Errorf("%w: failed to save family booking: %v", ErrInternal, err)
		}

		for i := range saved.Items {
			item := &saved.Items[i]
			if !item.ReservesSlot() {
				continue
			}
			_, err := uc.reserver.Reserve(txCtx, *item.ProfessionalID, saved.BookingDate, item.StartTime, item.EndTime, saved.Owner())
			if err != nil {
				uc.logger.Warn("CreateFamilyBooking: reserve failed for appointment #%d: %v", i+1, err)
				return mapReserveError(err)
			}
		}

		result = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, events.NewFamilyBookingEvent(events.TypeFamilyBookingCreated, result)); err != nil {
		uc.logger.Warn("CreateFamilyBooking: failed to publish event for family booking id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateFamilyBooking: family booking id=%d created, total=%.2f", result.ID, result.TotalPrice)
	return result, nil
}

func (uc *UseCase) buildBooking(ctx context.Context, req *Request) (*domain.FamilyBooking, error) {
	booking := &domain.FamilyBooking{
		Customer:            req.Customer,
		SalonID:             req.SalonID,
		BookingDate:         domain.DateOnly(req.BookingDate),
		Items:               make([]domain.FamilyBookingItem, 0, len(req.Items)),
		Status:              domain.StatusConfirmed,
		SpecialInstructions: req.SpecialInstructions,
		IsGroupBooking:      req.IsGroupBooking,
	}

	for i, in := range req.Items {
		if err := uc.checkProfessional(ctx, req.SalonID, in.ProfessionalID); err != nil {
			return nil, err
		}

		svc, err := uc.resolveService(ctx, req.SalonID, in)
		if err != nil {
			return nil, err
		}

		end := in.EndTime
		if !in.StartTime.IsZero() && end.IsZero() {
			end, err = in.StartTime.AddMinutes(svc.DurationMinutes())
			if err != nil {
				return nil, fmt.Errorf("%w: appointment #%d ends after midnight", ErrInvalidInput, i+1)
			}
		}

		booking.Items = append(booking.Items, domain.FamilyBookingItem{
			Member:          in.Member,
			ServiceID:       ptr.Ptr(svc.ID),
			ServiceName:     svc.Name,
			ServicePrice:    svc.Price,
			ServiceDuration: svc.Duration,
			ProfessionalID:  in.ProfessionalID,
			StartTime:       in.StartTime,
			EndTime:         end,
			Notes:           in.Notes,
			Status:          domain.StatusConfirmed,
			IsAdditional:    in.IsAdditional,
		})
		booking.TotalPrice += svc.Price
	}

	return booking, nil
}

func (uc *UseCase) checkProfessional(ctx context.Context, salonID int64, professionalID *int64) error {
	if professionalID == nil {
		return nil
	}

	professional, err := uc.catalogRepo.GetProfessional(ctx, *professionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateFamilyBooking: professional id=%d not found", *professionalID)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("CreateFamilyBooking: failed to get professional: %v", err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if professional.SalonID != salonID {
		uc.logger.Warn("CreateFamilyBooking: professional id=%d works in salon id=%d, not %d",
			professional.ID, professional.SalonID, salonID)
		return fmt.Errorf("%w: professional %d does not work in salon %d", ErrInvalidInput, professional.ID, salonID)
	}
	return nil
}

// resolveService ищет услугу по ID, затем по названию в пределах салона
func (uc *UseCase) resolveService(ctx context.Context, salonID int64, in ItemRequest) (*domain.Service, error) {
	var (
		svc *domain.Service
		err error
	)

	if in.ServiceID != nil {
		svc, err = uc.catalogRepo.GetService(ctx, salonID, *in.ServiceID)
		if errors.Is(err, catalogRepo.ErrServiceNotFound) && in.ServiceName != "" {
			svc, err = uc.catalogRepo.FindServiceByName(ctx, salonID, in.ServiceName)
		}
	} else {
		svc, err = uc.catalogRepo.FindServiceByName(ctx, salonID, in.ServiceName)
	}

	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateFamilyBooking: service id=%v name=%q not found in salon id=%d",
				ptr.Value(in.ServiceID), in.ServiceName, salonID)
			return nil, fmt.Errorf("%w: %q", ErrServiceNotFound, in.ServiceName)
		}
		uc.logger.Error("CreateFamilyBooking: failed to get service: %v", err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return svc, nil
}

func mapReserveError(err error) error {
	switch {
	case errors.Is(err, slots.ErrSlotNotAvailable):
		return fmt.Errorf("%w: %v", ErrSlotConflict, err)
	case errors.Is(err, slots.ErrProfessionalNotFound):
		return ErrProfessionalNotFound
	case errors.Is(err, slots.ErrInvalidInterval):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: reserve ticks: %v", ErrInternal, err)
	}
}
