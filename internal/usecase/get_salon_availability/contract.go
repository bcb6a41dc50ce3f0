package get_salon_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ProfessionalRepository интерфейс каталога мастеров
type ProfessionalRepository interface {
	// ListSalonProfessionals только доступные мастера салона
	ListSalonProfessionals(ctx context.Context, salonID int64) ([]domain.Professional, error)
}

// SlotGenerator отдает сетку тиков дня, создавая ее при первом обращении
type SlotGenerator interface {
	EnsureDay(ctx context.Context, professionalID int64, date time.Time) ([]domain.Tick, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
