package create_family_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createFamilyBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_family_booking"
)

type CreateFamilyBookingUseCase interface {
	Execute(ctx context.Context, req *createFamilyBooking.Request) (*domain.FamilyBooking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
