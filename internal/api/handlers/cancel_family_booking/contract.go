package cancel_family_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings/models"
)

type FamilyBookingService interface {
	Cancel(ctx context.Context, id int64) (*models.FamilyBookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
