package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
)

const operationName = "appointment_reschedule"

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	reserver        SlotReserver
	txManager       TransactionManager
	locker          Locker
	lockTTL         time.Duration
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
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
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		reserver:        reserver,
		txManager:       txManager,
		locker:          locker,
		lockTTL:         lockTTL,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute переносит запись: освобождает старые тики и резервирует новые в одной транзакции
// Конец интервала пересчитывается по длительностям услуг, статус возвращается в pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (result *domain.Appointment, err error) {
	defer func() { uc.metrics.RecordBookingOperation(operationName, err) }()

	uc.logger.Info("RescheduleAppointment: id=%d date=%s start=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Читаем текущую запись, чтобы знать старый ключ блокировки
	current, err := uc.load(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !current.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", current.ID, current.Status)
		return nil, ErrCannotReschedule
	}

	newProfessional := current.ProfessionalID
	if req.ProfessionalID != nil {
		if err := uc.checkProfessional(ctx, current.SalonID, *req.ProfessionalID); err != nil {
			return nil, err
		}
		newProfessional = req.ProfessionalID
	}

	// 3. Блокируем старый и новый ключи
	keys := make([]string, 0, 2)
	if current.ProfessionalID != nil {
		keys = append(keys, domain.SlotKey(*current.ProfessionalID, current.Date))
	}
	if newProfessional != nil {
		keys = append(keys, domain.SlotKey(*newProfessional, req.Date))
	}
	unlock, err := locker.LockMany(ctx, uc.locker, uc.lockTTL, keys...)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to acquire slot locks: %v", err)
		return nil, fmt.Errorf("%w: acquire slot locks: %v", ErrInternal, err)
	}
	defer unlock()

	// 4. Освобождение и новое резервирование в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := uc.load(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if !appointment.CanBeRescheduled() {
			return ErrCannotReschedule
		}

		appointment.ProfessionalID = newProfessional
		appointment.Date = domain.DateOnly(req.Date)
		appointment.StartTime = req.StartTime
		appointment.Status = domain.StatusPending

		end, err := appointment.ComputeEnd()
		if err != nil {
			return fmt.Errorf("%w: appointment ends after midnight", ErrInvalidInput)
		}
		appointment.EndTime = end

		released, err := uc.reserver.Release(txCtx, appointment.Owner())
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to release ticks of appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: release ticks: %v", ErrInternal, err)
		}

		if appointment.ProfessionalID != nil {
			_, err = uc.reserver.Reserve(txCtx, *appointment.ProfessionalID, appointment.Date,
				appointment.StartTime, appointment.EndTime, appointment.Owner())
			if err != nil {
				uc.logger.Warn("RescheduleAppointment: reserve failed for appointment id=%d: %v", appointment.ID, err)
				return mapReserveError(err)
			}
		} else {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has no professional, no ticks reserved", appointment.ID)
		}

		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: update appointment: %v", ErrInternal, err)
		}

		uc.logger.Info("RescheduleAppointment: appointment id=%d moved, %d old ticks freed", appointment.ID, released)
		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentRescheduled, result)); err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return result, nil
}

// checkProfessional новый мастер должен работать в салоне записи
func (uc *UseCase) checkProfessional(ctx context.Context, salonID, professionalID int64) error {
	professional, err := uc.catalogRepo.GetProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("RescheduleAppointment: professional id=%d not found", professionalID)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get professional: %v", err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if professional.SalonID != salonID {
		uc.logger.Warn("RescheduleAppointment: professional id=%d works in salon id=%d, not %d",
			professional.ID, professional.SalonID, salonID)
		return fmt.Errorf("%w: professional %d does not work in salon %d", ErrInvalidInput, professionalID, salonID)
	}
	return nil
}

func (uc *UseCase) load(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appointment, nil
}

func mapReserveError(err error) error {
	switch {
	case errors.Is(err, slots.ErrSlotNotAvailable):
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case errors.Is(err, slots.ErrProfessionalNotFound):
		return ErrProfessionalNotFound
	case errors.Is(err, slots.ErrInvalidInterval):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: reserve ticks: %v", ErrInternal, err)
	}
}
