package get_settings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
)

const msgInvalidCoachID = "некорректный ID тренера"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/coaches/{coachId}/settings
// Если тренер ничего не настраивал, отдаются значения по умолчанию (isDefault=true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /coaches/{id}/settings - Invalid coach ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return
	}

	settings, err := h.service.Get(r.Context(), coachID)
	if err != nil {
		h.logger.Error("GET /coaches/{id}/settings - Failed to get settings: coach_id=%d, error=%v", coachID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /coaches/{id}/settings - Settings retrieved: coach_id=%d, is_default=%t", coachID, settings.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
