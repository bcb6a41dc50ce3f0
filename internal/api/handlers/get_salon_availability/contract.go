package get_salon_availability

import (
	"context"

	getSalonAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_salon_availability"
)

type GetSalonAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getSalonAvailability.Request) (*getSalonAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
