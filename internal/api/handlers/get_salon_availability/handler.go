package get_salon_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getSalonAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_salon_availability"
)

const msgInvalidParams = "некорректные параметры запроса: нужны salonId и date в формате YYYY-MM-DD"

type Handler struct {
	useCase GetSalonAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetSalonAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/familybooking/available-slots?salonId=&date=&duration=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, err := ToUseCaseRequest(q.Get("salonId"), q.Get("date"), q.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /familybooking/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, getSalonAvailability.ErrInvalidInput) {
			h.logger.Warn("GET /familybooking/available-slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /familybooking/available-slots - Failed: salon_id=%d, error=%v", req.SalonID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
