package get_customer_appointments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const msgMissingContact = "нужно указать email или phone"

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/appointments?email=&phone=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := domain.CustomerFilter{
		Email: strings.TrimSpace(r.URL.Query().Get("email")),
		Phone: strings.TrimSpace(r.URL.Query().Get("phone")),
	}

	list, err := h.service.ListByCustomer(r.Context(), filter)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /appointments - Missing email and phone")
			handlers.RespondBadRequest(w, msgMissingContact)
			return
		}
		h.logger.Error("GET /appointments - Failed to list appointments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
