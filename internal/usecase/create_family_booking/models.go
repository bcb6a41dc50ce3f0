package create_family_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание семейной записи
type Request struct {
	Customer            domain.Customer
	SalonID             int64
	BookingDate         time.Time
	Items               []ItemRequest
	SpecialInstructions *string
	IsGroupBooking      bool
}

// ItemRequest услуга для одного члена семьи
type ItemRequest struct {
	Member         domain.FamilyMember
	ServiceID      *int64
	ServiceName    string
	ProfessionalID *int64
	StartTime      types.TimeString // пустое значение - время не выбрано
	EndTime        types.TimeString // пустое значение - считается по длительности услуги
	Notes          *string
	IsAdditional   bool
}
