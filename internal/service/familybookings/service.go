package familybookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	familyBookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/familybooking"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
)

const operationCancelFamily = "family_cancel"

// Service чтение и отмена семейных записей
type Service struct {
	repo      FamilyBookingRepository
	reserver  SlotReserver
	txManager TransactionManager
	locker    Locker
	lockTTL   time.Duration
	publisher EventPublisher
	metrics   Metrics
	logger    Logger
}

func NewService(
	repo FamilyBookingRepository,
	reserver SlotReserver,
	txManager TransactionManager,
	locker Locker,
	lockTTL time.Duration,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		reserver:  reserver,
		txManager: txManager,
		locker:    locker,
		lockTTL:   lockTTL,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetByID получает семейную запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.FamilyBookingResponse, error) {
	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainFamilyBooking(booking), nil
}

// ListByCustomer семейные записи клиента
func (s *Service) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) (*models.FamilyBookingListResponse, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}

	list, err := s.repo.ListByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainFamilyBookingList(list), nil
}

// Cancel отменяет все позиции и освобождает тики, принадлежащие семейной записи
func (s *Service) Cancel(ctx context.Context, id int64) (resp *models.FamilyBookingResponse, err error) {
	defer func() { s.metrics.RecordBookingOperation(operationCancelFamily, err) }()

	s.logger.Info("Cancel: cancelling family booking id=%d", id)

	booking, err := s.load(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: family booking id=%d is already cancelled", id)
		return nil, ErrAlreadyCancelled
	}

	keys := make([]string, 0, len(booking.Items))
	for _, item := range booking.Items {
		if item.ProfessionalID != nil {
			keys = append(keys, domain.SlotKey(*item.ProfessionalID, booking.BookingDate))
		}
	}
	unlock, err := locker.LockMany(ctx, s.locker, s.lockTTL, keys...)
	if err != nil {
		s.logger.Error("Cancel: lock slots for family booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: lock slots: %v", ErrInternal, err)
	}
	defer unlock()

	var released int64
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, "Cancel", id)
		if err != nil {
			return err
		}
		if !current.CanBeCancelled() {
			return ErrAlreadyCancelled
		}
		booking = current

		released, err = s.reserver.Release(txCtx, booking.Owner())
		if err != nil {
			s.logger.Error("Cancel: failed to release ticks of family booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - release ticks: %v", ErrInternal, err)
		}

		booking.CancelAll()
		if err := s.repo.UpdateStatuses(txCtx, booking); err != nil {
			if errors.Is(err, familyBookingRepo.ErrFamilyBookingNotFound) {
				return ErrFamilyBookingNotFound
			}
			s.logger.Error("Cancel: repository error for family booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewFamilyBookingEvent(events.TypeFamilyBookingCancelled, booking)); err != nil {
		s.logger.Warn("Cancel: failed to publish event for family booking id=%d: %v", id, err)
	}

	s.logger.Info("Cancel: family booking id=%d cancelled, %d ticks freed", id, released)
	return models.FromDomainFamilyBooking(booking), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.FamilyBooking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, familyBookingRepo.ErrFamilyBookingNotFound) {
			s.logger.Warn("%s: family booking id=%d not found", op, id)
			return nil, ErrFamilyBookingNotFound
		}
		s.logger.Error("%s: repository error for family booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
