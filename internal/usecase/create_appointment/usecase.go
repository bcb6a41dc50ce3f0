package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/duration"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const operationName = "appointment_create"

// UseCase use case для создания записей
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

// Execute создает все записи запроса и резервирует их тики
// Либо создаются все записи, либо ни одной
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() { uc.metrics.RecordBookingOperation(operationName, err) }()

	uc.logger.Info("CreateAppointment: customer=%q phone=%q email=%q entries=%d",
		req.Name, req.Phone, req.Email, len(req.Entries))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Цена и длительность берутся из каталога
	planned := make([]plannedEntry, 0, len(req.Entries))
	for i, entry := range req.Entries {
		if err := uc.checkProfessional(ctx, entry); err != nil {
			return nil, err
		}

		item, err := uc.resolveService(ctx, entry)
		if err != nil {
			return nil, err
		}

		end, err := entry.StartTime.AddMinutes(item.DurationMinutes)
		if err != nil {
			uc.logger.Warn("CreateAppointment: appointment #%d ends after midnight: %v", i+1, err)
			return nil, fmt.Errorf("%w: appointment #%d ends after midnight", ErrInvalidInput, i+1)
		}
		planned = append(planned, plannedEntry{entry: entry, service: item, end: end})
	}

	// 3. Блокируем все затронутые пары мастер+дата
	unlock, err := locker.LockMany(ctx, uc.locker, uc.lockTTL, lockKeys(planned)...)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to acquire slot locks: %v", err)
		return nil, fmt.Errorf("%w: acquire slot locks: %v", ErrInternal, err)
	}
	defer unlock()

	// 4. Сохраняем записи и резервируем тики в одной транзакции
	created := make([]*domain.Appointment, 0, len(planned))
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]
		for i, p := range planned {
			a, err := uc.createOne(txCtx, req, p)
			if err != nil {
				uc.logger.Warn("CreateAppointment: appointment #%d failed: %v", i+1, err)
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. События публикуются только после коммита
	for _, a := range created {
		if err := uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCreated, a)); err != nil {
			uc.logger.Warn("CreateAppointment: failed to publish event for appointment id=%d: %v", a.ID, err)
		}
	}

	uc.logger.Info("CreateAppointment: created %d appointments", len(created))
	return &Response{Appointments: created}, nil
}

func (uc *UseCase) createOne(ctx context.Context, req *Request, p plannedEntry) (*domain.Appointment, error) {
	appointment := &domain.Appointment{
		SalonID:        p.entry.SalonID,
		ProfessionalID: p.entry.ProfessionalID,
		Services:       []domain.ServiceLineItem{p.service},
		Date:           domain.DateOnly(p.entry.Date),
		StartTime:      p.entry.StartTime,
		EndTime:        p.end,
		Customer: domain.Customer{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		},
		Status: domain.StatusPending,
		Notes:  p.entry.Notes,
	}

	saved, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to save appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to save appointment: %v", ErrInternal, err)
	}

	if saved.ProfessionalID == nil {
		uc.logger.Warn("CreateAppointment: appointment id=%d has no professional, no ticks reserved", saved.ID)
		return saved, nil
	}

	_, err = uc.reserver.Reserve(ctx, *saved.ProfessionalID, saved.Date, saved.StartTime, saved.EndTime, saved.Owner())
	if err != nil {
		return nil, mapReserveError(err)
	}
	return saved, nil
}

// checkProfessional мастер должен работать в салоне записи
func (uc *UseCase) checkProfessional(ctx context.Context, entry Entry) error {
	if entry.ProfessionalID == nil {
		return nil
	}

	professional, err := uc.catalogRepo.GetProfessional(ctx, *entry.ProfessionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%d not found", *entry.ProfessionalID)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get professional: %v", err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if professional.SalonID != entry.SalonID {
		uc.logger.Warn("CreateAppointment: professional id=%d works in salon id=%d, not %d",
			professional.ID, professional.SalonID, entry.SalonID)
		return fmt.Errorf("%w: professional %d does not work in salon %d", ErrInvalidInput, professional.ID, entry.SalonID)
	}
	return nil
}

// resolveService ищет услугу по ID, затем по названию в пределах салона
func (uc *UseCase) resolveService(ctx context.Context, entry Entry) (domain.ServiceLineItem, error) {
	var (
		svc *domain.Service
		err error
	)

	if entry.ServiceID != nil {
		svc, err = uc.catalogRepo.GetService(ctx, entry.SalonID, *entry.ServiceID)
		if errors.Is(err, catalogRepo.ErrServiceNotFound) && entry.ServiceName != "" {
			svc, err = uc.catalogRepo.FindServiceByName(ctx, entry.SalonID, entry.ServiceName)
		}
	} else {
		svc, err = uc.catalogRepo.FindServiceByName(ctx, entry.SalonID, entry.ServiceName)
	}

	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%v name=%q not found in salon id=%d",
				ptr.Value(entry.ServiceID), entry.ServiceName, entry.SalonID)
			return domain.ServiceLineItem{}, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service: %v", err)
		return domain.ServiceLineItem{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	durationText := svc.Duration
	if durationText == "" {
		durationText = entry.Duration
	}

	return domain.ServiceLineItem{
		ServiceID:       ptr.Ptr(svc.ID),
		Name:            svc.Name,
		Price:           svc.Price,
		Duration:        durationText,
		DurationMinutes: duration.Parse(durationText),
	}, nil
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
