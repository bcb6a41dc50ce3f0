package create_family_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}
	if req.BookingDate.IsZero() {
		return fmt.Errorf("%w: bookingDate is required", ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one appointment is required", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxFamilyBookingItems {
		return fmt.Errorf("%w: at most %d appointments per family booking", ErrInvalidInput, domain.MaxFamilyBookingItems)
	}

	for i := range req.Items {
		if err := validateItem(&req.Items[i]); err != nil {
			return fmt.Errorf("%w (appointment #%d)", err, i+1)
		}
	}
	return nil
}

func validateItem(item *ItemRequest) error {
	if strings.TrimSpace(item.Member.Name) == "" {
		return fmt.Errorf("%w: family member name is required", ErrInvalidInput)
	}
	if item.ServiceID == nil && strings.TrimSpace(item.ServiceName) == "" {
		return fmt.Errorf("%w: serviceId or serviceName is required", ErrInvalidInput)
	}
	if item.ProfessionalID != nil && *item.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}
	if !item.StartTime.IsZero() {
		if err := item.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	}
	if !item.EndTime.IsZero() {
		if item.StartTime.IsZero() {
			return fmt.Errorf("%w: endTime requires startTime", ErrInvalidInput)
		}
		if err := item.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
		if !item.StartTime.IsBefore(item.EndTime) {
			return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
	}
	if item.Notes != nil && len(*item.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// findInternalOverlap ищет две резервирующие позиции одного мастера с пересекающимися интервалами
func findInternalOverlap(items []domain.FamilyBookingItem) error {
	for i := range items {
		if !items[i].ReservesSlot() {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if !items[j].ReservesSlot() || *items[i].ProfessionalID != *items[j].ProfessionalID {
				continue
			}
			if items[i].StartTime.IsBefore(items[j].EndTime) && items[j].StartTime.IsBefore(items[i].EndTime) {
				return fmt.Errorf("%w: appointments #%d and #%d overlap for professional id=%d",
					ErrSlotConflict, i+1, j+1, *items[i].ProfessionalID)
			}
		}
	}
	return nil
}

func lockKeys(b *domain.FamilyBooking) []string {
	keys := make([]string, 0, len(b.Items))
	for i := range b.Items {
		if b.Items[i].ReservesSlot() {
			keys = append(keys, domain.SlotKey(*b.Items[i].ProfessionalID, b.BookingDate))
		}
	}
	return keys
}
