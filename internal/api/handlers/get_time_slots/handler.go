package get_time_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_time_slots"
)

const (
	msgInvalidParams        = "некорректные параметры запроса: нужны professionalId и date в формате YYYY-MM-DD"
	msgProfessionalNotFound = "мастер не найден"
)

type Handler struct {
	useCase GetTimeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetTimeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/timeslots?professionalId=&date=&duration=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, err := ToUseCaseRequest(q.Get("professionalId"), q.Get("date"), q.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /timeslots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getTimeSlots.ErrInvalidInput):
			h.logger.Warn("GET /timeslots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getTimeSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /timeslots - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("GET /timeslots - Failed to get slots: professional_id=%d, error=%v", req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
