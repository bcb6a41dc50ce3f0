package get_salon_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса свободного времени салона
type Request struct {
	SalonID  int64
	Date     time.Time
	Duration *string // nil - длительность по умолчанию
}

// Response свободные окна по всем доступным мастерам салона
type Response struct {
	SalonID         int64
	Date            time.Time
	RequiredMinutes int
	Professionals   []ProfessionalSlots
}

// ProfessionalSlots виртуальные слоты одного мастера
type ProfessionalSlots struct {
	ProfessionalID   int64
	ProfessionalName string
	Slots            []domain.VirtualSlot
}
