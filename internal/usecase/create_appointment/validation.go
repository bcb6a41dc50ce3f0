package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.Entries) == 0 {
		return fmt.Errorf("%w: at least one appointment is required", ErrInvalidInput)
	}
	if len(req.Entries) > domain.MaxAppointmentsPerCall {
		return fmt.Errorf("%w: at most %d appointments per request", ErrInvalidInput, domain.MaxAppointmentsPerCall)
	}

	if strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: phone or email is required", ErrInvalidInput)
	}

	for i := range req.Entries {
		if err := validateEntry(&req.Entries[i]); err != nil {
			return fmt.Errorf("%w (appointment #%d)", err, i+1)
		}
	}
	return nil
}

func validateEntry(e *Entry) error {
	if e.SalonID <= 0 {
		return fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}
	if e.ProfessionalID != nil && *e.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}
	if e.ServiceID == nil && strings.TrimSpace(e.ServiceName) == "" {
		return fmt.Errorf("%w: serviceId or serviceName is required", ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if e.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := e.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if e.Notes != nil && len(*e.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// lockKeys ключи блокировок для позиций с конкретным мастером
func lockKeys(planned []plannedEntry) []string {
	keys := make([]string, 0, len(planned))
	for _, p := range planned {
		if p.entry.ProfessionalID != nil {
			keys = append(keys, domain.SlotKey(*p.entry.ProfessionalID, p.entry.Date))
		}
	}
	return keys
}
