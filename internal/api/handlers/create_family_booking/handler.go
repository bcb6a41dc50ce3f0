package create_family_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings/models"
	createFamilyBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_family_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgSlotConflict         = "одно из выбранных времен уже занято или пересекается с другой записью"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "мастер не найден"
)

type Handler struct {
	useCase CreateFamilyBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateFamilyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/familybooking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /familybooking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /familybooking - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /familybooking - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createFamilyBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createFamilyBooking.ErrSlotConflict):
			h.logger.Warn("POST /familybooking - Slot conflict: %v", err)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createFamilyBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createFamilyBooking.ErrProfessionalNotFound):
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("POST /familybooking - Failed to create family booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /familybooking - Family booking created: id=%d, items=%d", booking.ID, len(booking.Items))
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainFamilyBooking(booking))
}
