package get_customer_family_bookings

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings/models"
)

type FamilyBookingService interface {
	ListByCustomer(ctx context.Context, filter domain.CustomerFilter) (*models.FamilyBookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
