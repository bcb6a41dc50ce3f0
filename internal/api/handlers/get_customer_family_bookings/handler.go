package get_customer_family_bookings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/familybookings"
)

const msgMissingContact = "нужно указать email или phone"

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

// Handle GET /api/familybooking/customer?email=&phone=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := domain.CustomerFilter{
		Email: strings.TrimSpace(r.URL.Query().Get("email")),
		Phone: strings.TrimSpace(r.URL.Query().Get("phone")),
	}

	list, err := h.service.ListByCustomer(r.Context(), filter)
	if err != nil {
		if errors.Is(err, familybookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgMissingContact)
			return
		}
		h.logger.Error("GET /familybooking/customer - Failed to list family bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
