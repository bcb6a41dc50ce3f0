package get_time_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса сетки мастера на день
type Request struct {
	ProfessionalID int64
	Date           time.Time
	Duration       *string // "1h 30min"; nil - виртуальные слоты не считаются
}

// Response сетка тиков и, если задана длительность, виртуальные слоты
type Response struct {
	ProfessionalID  int64
	Date            time.Time
	Ticks           []domain.Tick
	RequiredMinutes int
	VirtualSlots    []domain.VirtualSlot
}
