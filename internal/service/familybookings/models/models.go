package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CustomerInfoResponse контакты клиента
type CustomerInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// FamilyMemberResponse член семьи
type FamilyMemberResponse struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Preferences  *string `json:"preferences,omitempty"`
}

// ItemResponse одна позиция семейной записи
type ItemResponse struct {
	ID              int64                `json:"id"`
	FamilyMember    FamilyMemberResponse `json:"familyMember"`
	ServiceID       *int64               `json:"serviceId,omitempty"`
	ServiceName     string               `json:"serviceName"`
	ServicePrice    float64              `json:"servicePrice"`
	ServiceDuration string               `json:"serviceDuration"`
	ProfessionalID  *int64               `json:"professionalId"`
	StartTime       string               `json:"startTime,omitempty"`
	EndTime         string               `json:"endTime,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	Status          string               `json:"status"`
	IsAdditional    bool                 `json:"isAdditional"`
}

// FamilyBookingResponse ответ с данными семейной записи
type FamilyBookingResponse struct {
	ID                  int64                `json:"id"`
	CustomerInfo        CustomerInfoResponse `json:"customerInfo"`
	SalonID             int64                `json:"salonId"`
	BookingDate         string               `json:"bookingDate"`
	Appointments        []ItemResponse       `json:"appointments"`
	TotalPrice          float64              `json:"totalPrice"`
	Status              string               `json:"status"`
	SpecialInstructions *string              `json:"specialInstructions,omitempty"`
	IsGroupBooking      bool                 `json:"isGroupBooking"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FamilyBookingListResponse ответ со списком семейных записей
type FamilyBookingListResponse struct {
	Bookings []FamilyBookingResponse `json:"bookings"`
}

// FromDomainFamilyBooking конвертирует domain модель в DTO
func FromDomainFamilyBooking(b *domain.FamilyBooking) *FamilyBookingResponse {
	if b == nil {
		return nil
	}

	items := make([]ItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = ItemResponse{
			ID: item.ID,
			FamilyMember: FamilyMemberResponse{
				Name:         item.Member.Name,
				Relationship: item.Member.Relationship,
				Preferences:  item.Member.Preferences,
			},
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			ServicePrice:    item.ServicePrice,
			ServiceDuration: item.ServiceDuration,
			ProfessionalID:  item.ProfessionalID,
			StartTime:       item.StartTime.String(),
			EndTime:         item.EndTime.String(),
			Notes:           item.Notes,
			Status:          string(item.Status),
			IsAdditional:    item.IsAdditional,
		}
	}

	return &FamilyBookingResponse{
		ID: b.ID,
		CustomerInfo: CustomerInfoResponse{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
		},
		SalonID:             b.SalonID,
		BookingDate:         b.BookingDate.Format(domain.DateFormat),
		Appointments:        items,
		TotalPrice:          b.TotalPrice,
		Status:              string(b.Status),
		SpecialInstructions: b.SpecialInstructions,
		IsGroupBooking:      b.IsGroupBooking,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// FromDomainFamilyBookingList конвертирует список domain моделей в DTO
func FromDomainFamilyBookingList(list []*domain.FamilyBooking) *FamilyBookingListResponse {
	resp := &FamilyBookingListResponse{
		Bookings: make([]FamilyBookingResponse, 0, len(list)),
	}
	for _, b := range list {
		if item := FromDomainFamilyBooking(b); item != nil {
			resp.Bookings = append(resp.Bookings, *item)
		}
	}
	return resp
}
