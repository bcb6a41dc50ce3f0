package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type FamilyMember struct {
	Name         string
	Relationship string
	Preferences  *string
}

// FamilyBookingItem одна услуга для одного члена семьи
type FamilyBookingItem struct {
	ID              int64
	FamilyBookingID int64
	Position        int
	Member          FamilyMember
	ServiceID       *int64
	ServiceName     string
	ServicePrice    float64
	ServiceDuration string
	ProfessionalID  *int64
	StartTime       types.TimeString
	EndTime         types.TimeString
	Notes           *string
	Status          AppointmentStatus
	IsAdditional    bool
}

// ReservesSlot returns true if the item needs ticks (professional and time are known)
func (i *FamilyBookingItem) ReservesSlot() bool {
	return i.ProfessionalID != nil && !i.StartTime.IsZero() && !i.EndTime.IsZero()
}

// FamilyBooking group booking: several services for several people in one request
type FamilyBooking struct {
	ID                  int64
	Customer            Customer
	SalonID             int64
	BookingDate         time.Time
	Items               []FamilyBookingItem
	TotalPrice          float64
	Status              AppointmentStatus
	SpecialInstructions *string
	IsGroupBooking      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner владелец тиков семейной записи
func (b *FamilyBooking) Owner() TickOwner {
	return FamilyBookingOwner(b.ID)
}

// CanBeCancelled returns true while at least one item is still active
func (b *FamilyBooking) CanBeCancelled() bool {
	return b.Status != StatusCancelled
}

// RecomputeStatus общий статус cancelled тогда и только тогда, когда отменены все позиции
func (b *FamilyBooking) RecomputeStatus() {
	if len(b.Items) == 0 {
		return
	}

	for _, item := range b.Items {
		if item.Status != StatusCancelled {
			if b.Status == StatusCancelled {
				b.Status = StatusConfirmed
			}
			return
		}
	}
	b.Status = StatusCancelled
}

// CancelAll отменяет все позиции и запись целиком
func (b *FamilyBooking) CancelAll() {
	for i := range b.Items {
		b.Items[i].Status = StatusCancelled
	}
	b.Status = StatusCancelled
}
