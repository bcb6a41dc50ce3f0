package get_time_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

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
