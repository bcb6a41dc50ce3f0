package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// GetSalonAppointmentsRequest запрос записей салона
type GetSalonAppointmentsRequest struct {
	SalonID        int64
	Date           *time.Time
	ProfessionalID *int64
}

// Response модели

// ServiceItemResponse услуга в составе записи
type ServiceItemResponse struct {
	ServiceID       *int64  `json:"serviceId,omitempty"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Duration        string  `json:"duration"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID             int64                 `json:"id"`
	SalonID        int64                 `json:"salonId"`
	ProfessionalID *int64                `json:"professionalId"`
	Services       []ServiceItemResponse `json:"services"`
	Date           string                `json:"date"`      // "2024-06-01"
	StartTime      string                `json:"startTime"` // "09:00"
	EndTime        string                `json:"endTime"`
	TotalDuration  int                   `json:"totalDuration"`
	TotalPrice     float64               `json:"totalPrice"`
	Name           string                `json:"name"`
	Phone          string                `json:"phone,omitempty"`
	Email          string                `json:"email,omitempty"`
	Status         string                `json:"status"`
	Notes          *string               `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	services := make([]ServiceItemResponse, len(a.Services))
	for i, s := range a.Services {
		services[i] = ServiceItemResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			Duration:        s.Duration,
			DurationMinutes: s.DurationMinutes,
		}
	}

	return &AppointmentResponse{
		ID:             a.ID,
		SalonID:        a.SalonID,
		ProfessionalID: a.ProfessionalID,
		Services:       services,
		Date:           a.Date.Format(domain.DateFormat),
		StartTime:      a.StartTime.String(),
		EndTime:        a.EndTime.String(),
		TotalDuration:  a.TotalDurationMinutes(),
		TotalPrice:     a.TotalPrice(),
		Name:           a.Customer.Name,
		Phone:          a.Customer.Phone,
		Email:          a.Customer.Email,
		Status:         string(a.Status),
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}

	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
