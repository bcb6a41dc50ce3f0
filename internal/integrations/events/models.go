package events

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Типы событий бронирования
const (
	TypeAppointmentCreated       = "appointment.created"
	TypeAppointmentCancelled     = "appointment.cancelled"
	TypeAppointmentRescheduled   = "appointment.rescheduled"
	TypeAppointmentStatusChanged = "appointment.status_changed"
	TypeFamilyBookingCreated     = "family_booking.created"
	TypeFamilyBookingCancelled   = "family_booking.cancelled"
)

// Event конверт события, в Kafka уходит как JSON
type Event struct {
	Type        string      `json:"type"`
	AggregateID int64       `json:"aggregateId"`
	OccurredAt  time.Time   `json:"occurredAt"`
	Payload     interface{} `json:"payload"`
}

// AppointmentPayload состояние записи на момент события
type AppointmentPayload struct {
	ID             int64   `json:"id"`
	SalonID        int64   `json:"salonId"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	TotalPrice     float64 `json:"totalPrice"`
	PreviousDate   string  `json:"previousDate,omitempty"`
	PreviousStart  string  `json:"previousStartTime,omitempty"`
}

// FamilyBookingPayload состояние семейной записи на момент события
type FamilyBookingPayload struct {
	ID          int64   `json:"id"`
	SalonID     int64   `json:"salonId"`
	BookingDate string  `json:"bookingDate"`
	Items       int     `json:"items"`
	TotalPrice  float64 `json:"totalPrice"`
	Status      string  `json:"status"`
}

// NewAppointmentEvent собирает событие по записи
func NewAppointmentEvent(eventType string, a *domain.Appointment) Event {
	return Event{
		Type:        eventType,
		AggregateID: a.ID,
		OccurredAt:  time.Now().UTC(),
		Payload: AppointmentPayload{
			ID:             a.ID,
			SalonID:        a.SalonID,
			ProfessionalID: a.ProfessionalID,
			Date:           a.Date.Format(domain.DateFormat),
			StartTime:      a.StartTime.String(),
			EndTime:        a.EndTime.String(),
			Status:         string(a.Status),
			TotalPrice:     a.TotalPrice(),
		},
	}
}

// NewFamilyBookingEvent собирает событие по семейной записи
func NewFamilyBookingEvent(eventType string, b *domain.FamilyBooking) Event {
	return Event{
		Type:        eventType,
		AggregateID: b.ID,
		OccurredAt:  time.Now().UTC(),
		Payload: FamilyBookingPayload{
			ID:          b.ID,
			SalonID:     b.SalonID,
			BookingDate: b.BookingDate.Format(domain.DateFormat),
			Items:       len(b.Items),
			TotalPrice:  b.TotalPrice,
			Status:      string(b.Status),
		},
	}
}
