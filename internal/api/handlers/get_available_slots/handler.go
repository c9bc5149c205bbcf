package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-CoachBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidCoachID = "некорректный ID тренера"
	msgMissingType    = "тип бронирования обязателен"
	msgMissingDate    = "дата обязательна"
	msgInvalidParams  = "некорректные параметры запроса, дата ожидается в формате YYYY-MM-DD"
	msgInvalidInput   = "некорректные параметры запроса"
	msgCoachNotFound  = "тренер не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/coaches/{coachId}/available-slots
// Query params: type (session|checkin), date (YYYY-MM-DD), days, duration (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /coaches/{id}/available-slots - Invalid coach ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return
	}

	query := r.URL.Query()
	typeStr := query.Get("type")
	if typeStr == "" {
		h.logger.Warn("GET /coaches/{id}/available-slots - Missing booking type: coach_id=%d", coachID)
		handlers.RespondBadRequest(w, msgMissingType)
		return
	}
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /coaches/{id}/available-slots - Missing date: coach_id=%d", coachID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(coachID, typeStr, dateStr, query.Get("days"), query.Get("duration"))
	if err != nil {
		h.logger.Warn("GET /coaches/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /coaches/{id}/available-slots - Invalid input: coach_id=%d, error=%v", coachID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrCoachNotFound):
			h.logger.Warn("GET /coaches/{id}/available-slots - Coach not found: coach_id=%d", coachID)
			handlers.RespondNotFound(w, msgCoachNotFound)

		default:
			h.logger.Error("GET /coaches/{id}/available-slots - Failed to get slots: coach_id=%d, error=%v", coachID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /coaches/{id}/available-slots - Slots retrieved: coach_id=%d, type=%s, days=%d, slots_count=%d",
		coachID, result.BookingType, result.Days, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
