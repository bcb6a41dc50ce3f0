package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Tick minimal unit of a professional's day grid (5 minutes by default)
type Tick struct {
	ID              int64
	SalonID         int64
	ProfessionalID  int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	IsBooked        bool
	AppointmentID   *int64 // владелец, если тик занят обычной записью
	FamilyBookingID *int64 // владелец, если тик занят семейной записью
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DurationMinutes ширина тика
func (t *Tick) DurationMinutes() int {
	return t.StartTime.MinutesUntil(t.EndTime)
}

// Overlaps returns true if the tick intersects [start, end)
func (t *Tick) Overlaps(start, end types.TimeString) bool {
	return t.StartTime < end && t.EndTime > start
}

// OwnedBy returns true if the tick is booked by the given owner
func (t *Tick) OwnedBy(owner TickOwner) bool {
	if !t.IsBooked {
		return false
	}
	if owner.AppointmentID != nil {
		return t.AppointmentID != nil && *t.AppointmentID == *owner.AppointmentID
	}
	if owner.FamilyBookingID != nil {
		return t.FamilyBookingID != nil && *t.FamilyBookingID == *owner.FamilyBookingID
	}
	return false
}

// TickOwner ссылка на запись, которой принадлежат тики
// Задано ровно одно из полей
type TickOwner struct {
	AppointmentID   *int64
	FamilyBookingID *int64
}

func AppointmentOwner(id int64) TickOwner {
	return TickOwner{AppointmentID: &id}
}

func FamilyBookingOwner(id int64) TickOwner {
	return TickOwner{FamilyBookingID: &id}
}

// IsValid returns true if exactly one owner reference is set
func (o TickOwner) IsValid() bool {
	return (o.AppointmentID != nil) != (o.FamilyBookingID != nil)
}

func (o TickOwner) String() string {
	switch {
	case o.AppointmentID != nil:
		return fmt.Sprintf("appointment:%d", *o.AppointmentID)
	case o.FamilyBookingID != nil:
		return fmt.Sprintf("family_booking:%d", *o.FamilyBookingID)
	default:
		return "none"
	}
}

// VirtualSlot contiguous run of free ticks long enough for a service
// Не хранится в БД, вычисляется на каждый запрос
type VirtualSlot struct {
	ID              string // id тиков через "_"
	TickIDs         []int64
	StartTime       types.TimeString
	EndTime         types.TimeString // StartTime + DurationMinutes
	DurationMinutes int
}

// VirtualSlotID склеивает id тиков в идентификатор виртуального слота
func VirtualSlotID(tickIDs []int64) string {
	parts := make([]string, len(tickIDs))
	for i, id := range tickIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "_")
}

// SlotKey ключ блокировки сетки мастера на дату
func SlotKey(professionalID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%s", professionalID, date.Format(DateFormat))
}

// DateOnly отбрасывает время, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate сравнивает только календарные даты
func SameDate(a, b time.Time) bool {
	return a.Format(DateFormat) == b.Format(DateFormat)
}
