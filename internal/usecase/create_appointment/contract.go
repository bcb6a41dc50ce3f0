package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога услуг салона
type CatalogRepository interface {
	GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error)
	FindServiceByName(ctx context.Context, salonID int64, name string) (*domain.Service, error)
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
}

// SlotReserver резервирует тики под запись
type SlotReserver interface {
	Reserve(ctx context.Context, professionalID int64, date time.Time, start, end types.TimeString, owner domain.TickOwner) ([]int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка по ключу мастер+дата
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (locker.UnlockFunc, error)
}

// EventPublisher публикует события после коммита
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Metrics interface {
	RecordBookingOperation(operation string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
