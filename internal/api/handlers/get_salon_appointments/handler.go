package get_salon_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidParams  = "некорректные параметры запроса"
)

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

// Handle GET /api/appointments/salon/{salonId}
// Query params: date, professionalId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/salon/{id} - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	req, err := ToServiceRequest(salonID, r.URL.Query().Get("date"), r.URL.Query().Get("professionalId"))
	if err != nil {
		h.logger.Warn("GET /appointments/salon/{id} - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	list, err := h.service.ListBySalon(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /appointments/salon/{id} - Failed to list appointments: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
