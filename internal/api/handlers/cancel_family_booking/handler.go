package cancel_family_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings"
)

const (
	msgInvalidID        = "некорректный ID семейной записи"
	msgNotFound         = "семейная запись не найдена"
	msgAlreadyCancelled = "семейная запись уже отменена"
)

type Handler struct {
	service FamilyBookingService
	logger  Logger
}

func NewHandler(service FamilyBookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/familybooking/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /familybooking/{id}/cancel - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, familybookings.ErrFamilyBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, familybookings.ErrAlreadyCancelled):
			handlers.RespondConflict(w, msgAlreadyCancelled)

		default:
			h.logger.Error("PUT /familybooking/{id}/cancel - Failed to cancel: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /familybooking/{id}/cancel - Family booking cancelled: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
