package create_family_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createFamilyBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_family_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateFamilyBookingRequest HTTP request model
type CreateFamilyBookingRequest struct {
	CustomerInfo        CustomerInfo      `json:"customerInfo"`
	SalonID             int64             `json:"salonId" validate:"required,gt=0"`
	BookingDate         string            `json:"bookingDate" validate:"required"`
	Appointments        []FamilyItemInput `json:"appointments" validate:"required,min=1,dive"`
	SpecialInstructions *string           `json:"specialInstructions,omitempty"`
	IsGroupBooking      bool              `json:"isGroupBooking"`
}

type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type FamilyMemberInput struct {
	Name         string  `json:"name" validate:"required"`
	Relationship string  `json:"relationship"`
	Preferences  *string `json:"preferences,omitempty"`
}

// FamilyItemInput услуга для одного члена семьи
type FamilyItemInput struct {
	FamilyMember   FamilyMemberInput `json:"familyMember"`
	ServiceID      *int64            `json:"serviceId" validate:"omitempty,gt=0"`
	ServiceName    string            `json:"serviceName"`
	ProfessionalID *int64            `json:"professionalId" validate:"omitempty,gt=0"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	Notes          *string           `json:"notes,omitempty"`
	IsAdditional   bool              `json:"isAdditional"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateFamilyBookingRequest) ToUseCaseRequest() (*createFamilyBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid bookingDate: %w", err)
	}

	items := make([]createFamilyBooking.ItemRequest, 0, len(r.Appointments))
	for i, a := range r.Appointments {
		start, err := parseOptionalTime(a.StartTime)
		if err != nil {
			return nil, fmt.Errorf("appointment #%d: invalid startTime: %w", i+1, err)
		}
		end, err := parseOptionalTime(a.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment #%d: invalid endTime: %w", i+1, err)
		}

		items = append(items, createFamilyBooking.ItemRequest{
			Member: domain.FamilyMember{
				Name:         a.FamilyMember.Name,
				Relationship: a.FamilyMember.Relationship,
				Preferences:  a.FamilyMember.Preferences,
			},
			ServiceID:      a.ServiceID,
			ServiceName:    a.ServiceName,
			ProfessionalID: a.ProfessionalID,
			StartTime:      start,
			EndTime:        end,
			Notes:          a.Notes,
			IsAdditional:   a.IsAdditional,
		})
	}

	return &createFamilyBooking.Request{
		Customer: domain.Customer{
			Name:  r.CustomerInfo.Name,
			Email: r.CustomerInfo.Email,
			Phone: r.CustomerInfo.Phone,
		},
		SalonID:             r.SalonID,
		BookingDate:         date,
		Items:               items,
		SpecialInstructions: r.SpecialInstructions,
		IsGroupBooking:      r.IsGroupBooking,
	}, nil
}

func parseOptionalTime(s string) (types.TimeString, error) {
	if s == "" {
		return "", nil
	}
	return types.NewTimeStringFromString(s)
}
