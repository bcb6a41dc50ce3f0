package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// TimeSlotRepository интерфейс репозитория тиков
type TimeSlotRepository interface {
	BulkCreate(ctx context.Context, ticks []domain.Tick) (int64, error)
	GetByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]domain.Tick, error)
	GetOverlapping(ctx context.Context, professionalID int64, date time.Time, start, end types.TimeString) ([]domain.Tick, error)
	MarkBooked(ctx context.Context, ids []int64, owner domain.TickOwner) (int64, error)
	ReleaseByOwner(ctx context.Context, owner domain.TickOwner) (int64, error)
}

// ProfessionalRepository интерфейс каталога мастеров
type ProfessionalRepository interface {
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
	ListProfessionals(ctx context.Context) ([]domain.Professional, error)
}

// Metrics счетчики генератора и резервирования
type Metrics interface {
	AddTicksGenerated(n int)
	RecordReservation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
