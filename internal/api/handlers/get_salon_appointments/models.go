package get_salon_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

// ToServiceRequest собирает запрос к сервису из пути и query параметров
func ToServiceRequest(salonID int64, dateStr, professionalIDStr string) (*models.GetSalonAppointmentsRequest, error) {
	req := &models.GetSalonAppointmentsRequest{SalonID: salonID}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &date
	}

	if professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid professionalId: %w", err)
		}
		req.ProfessionalID = ptr.Ptr(professionalID)
	}

	return req, nil
}
