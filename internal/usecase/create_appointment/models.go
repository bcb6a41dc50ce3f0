package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание записей
// Каждая позиция Entries превращается в отдельную запись с одной услугой
type Request struct {
	Name    string
	Phone   string
	Email   string
	Entries []Entry
}

// Entry одна запись из запроса
type Entry struct {
	SalonID        int64
	ProfessionalID *int64 // nil - любой мастер
	ServiceID      *int64
	ServiceName    string
	Duration       string // используется, только если в каталоге длительность не указана
	Date           time.Time
	StartTime      types.TimeString
	Notes          *string
}

// Response созданные записи в порядке Entries
type Response struct {
	Appointments []*domain.Appointment
}

// plannedEntry позиция после разрешения услуги по каталогу
type plannedEntry struct {
	entry   Entry
	service domain.ServiceLineItem
	end     types.TimeString
}
