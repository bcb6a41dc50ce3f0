package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const (
	operationCancel       = "cancel"
	operationUpdateStatus = "update_status"
)

// Service сервис для работы с записями: чтение, отмена, смена статуса
type Service struct {
	appointmentRepo AppointmentRepository
	reserver        SlotReserver
	txManager       TransactionManager
	locker          Locker
	lockTTL         time.Duration
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	reserver SlotReserver,
	txManager TransactionManager,
	locker Locker,
	lockTTL time.Duration,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		reserver:        reserver,
		txManager:       txManager,
		locker:          locker,
		lockTTL:         lockTTL,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appointment, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appointment), nil
}

// ListByCustomer записи клиента по email или телефону
func (s *Service) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) (*models.AppointmentListResponse, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.ListByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: found %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}

// ListBySalon записи салона, опционально за дату и по мастеру
func (s *Service) ListBySalon(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.ListBySalon(ctx, domain.AppointmentsFilter{
		SalonID:        req.SalonID,
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
	})
	if err != nil {
		s.logger.Error("ListBySalon: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: ListBySalon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBySalon: found %d appointments for salon=%d", len(list), req.SalonID)
	return models.FromDomainAppointmentList(list), nil
}

// Delete удаляет запись и освобождает ровно те тики, которыми она владеет
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.metrics.RecordBookingOperation(operationCancel, err) }()

	s.logger.Info("Delete: deleting appointment id=%d", id)

	appointment, err := s.load(ctx, "Delete", id)
	if err != nil {
		return err
	}

	unlock, err := s.lockFor(ctx, appointment)
	if err != nil {
		return err
	}
	defer unlock()

	var released int64
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.load(txCtx, "Delete", id); err != nil {
			return err
		}

		released, err = s.reserver.Release(txCtx, domain.AppointmentOwner(id))
		if err != nil {
			s.logger.Error("Delete: failed to release ticks of appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - release ticks: %v", ErrInternal, err)
		}

		if err := s.appointmentRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	appointment.Status = domain.StatusCancelled
	s.publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCancelled, appointment))

	s.logger.Info("Delete: appointment id=%d deleted, %d ticks freed", id, released)
	return nil
}

// UpdateStatus меняет статус записи
// cancelled освобождает тики; cancelled и completed финальные
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (resp *models.AppointmentResponse, err error) {
	defer func() { s.metrics.RecordBookingOperation(operationUpdateStatus, err) }()

	s.logger.Info("UpdateStatus: appointment id=%d to status=%s", id, req.Status)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, ErrInvalidStatus
	}

	appointment, err := s.load(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockFor(ctx, appointment)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var changed bool
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}
		appointment = current

		if appointment.Status == newStatus {
			return nil
		}
		if !appointment.CanChangeStatus() {
			s.logger.Warn("UpdateStatus: appointment id=%d is %s, cannot move to %s", id, appointment.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, appointment.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			if _, err := s.reserver.Release(txCtx, appointment.Owner()); err != nil {
				s.logger.Error("UpdateStatus: failed to release ticks of appointment id=%d: %v", id, err)
				return fmt.Errorf("%w: UpdateStatus - release ticks: %v", ErrInternal, err)
			}
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appointment.Status = newStatus
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentStatusChanged, appointment))
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, appointment.Status)
	return models.FromDomainAppointment(appointment), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// lockFor блокирует сетку мастера записи; для записи без мастера блокировка не нужна
func (s *Service) lockFor(ctx context.Context, appointment *domain.Appointment) (func(), error) {
	if appointment.ProfessionalID == nil {
		return func() {}, nil
	}

	unlock, err := s.locker.Lock(ctx, domain.SlotKey(*appointment.ProfessionalID, appointment.Date), s.lockTTL)
	if err != nil {
		s.logger.Error("lock for appointment id=%d: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: lock slots: %v", ErrInternal, err)
	}
	return unlock, nil
}

// publish ошибки брокера не откатывают уже зафиксированную операцию
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish %s for id=%d: %v", event.Type, event.AggregateID, err)
	}
}
