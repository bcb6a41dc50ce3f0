package familybookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
)

// FamilyBookingRepository интерфейс репозитория семейных записей
type FamilyBookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FamilyBooking, error)
	ListByCustomer(ctx context.Context, filter domain.CustomerFilter) ([]*domain.FamilyBooking, error)
	UpdateStatuses(ctx context.Context, b *domain.FamilyBooking) error
}

type SlotReserver interface {
	Release(ctx context.Context, owner domain.TickOwner) (int64, error)
}

type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (locker.UnlockFunc, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Metrics interface {
	RecordBookingOperation(operation string, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
