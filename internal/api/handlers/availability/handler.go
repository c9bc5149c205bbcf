package availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/availability"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/availability/models"
)

const (
	msgInvalidCoachID    = "некорректный ID тренера"
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgInvalidOverrideID = "некорректный ID исключения"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidJSON       = "некорректный формат запроса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgInvalidInput      = "некорректные данные расписания"
	msgForbidden         = "расписание может менять только сам тренер"
	msgTemplateNotFound  = "шаблон не найден"
	msgOverrideNotFound  = "исключение не найдено"
)

// Handler управление еженедельными шаблонами и исключениями на даты
type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListTemplates GET /api/v1/coaches/{coachId}/availability/templates
// Query params: type (опционально)
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	coachID, ok := h.coachID(w, r, "GET /coaches/{id}/availability/templates")
	if !ok {
		return
	}

	req, _ := ToListRequest(coachID, r.URL.Query().Get("type"), "", "")

	result, err := h.service.ListTemplates(r.Context(), req)
	if err != nil {
		h.respondError(w, "GET /coaches/{id}/availability/templates", coachID, err)
		return
	}

	h.logger.Info("GET /coaches/{id}/availability/templates - Templates retrieved: coach_id=%d, count=%d",
		coachID, len(result.Templates))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateTemplate POST /api/v1/coaches/{coachId}/availability/templates
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	const route = "POST /coaches/{id}/availability/templates"

	coachID, ok := h.coachID(w, r, route)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r, route)
	if !ok {
		return
	}

	var req models.CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid JSON: coach_id=%d, error=%v", route, coachID, err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}
	req.UserID = userID
	req.CoachID = coachID

	result, err := h.service.CreateTemplate(r.Context(), &req)
	if err != nil {
		h.respondError(w, route, coachID, err)
		return
	}

	h.logger.Info("%s - Template created: coach_id=%d, template_id=%d", route, coachID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteTemplate DELETE /api/v1/coaches/{coachId}/availability/templates/{templateId}
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /coaches/{id}/availability/templates/{id}"

	coachID, ok := h.coachID(w, r, route)
	if !ok {
		return
	}
	templateID, err := strconv.ParseInt(mux.Vars(r)["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid template ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}
	userID, ok := h.userID(w, r, route)
	if !ok {
		return
	}

	if err := h.service.DeleteTemplate(r.Context(), userID, coachID, templateID); err != nil {
		h.respondError(w, route, coachID, err)
		return
	}

	h.logger.Info("%s - Template deleted: coach_id=%d, template_id=%d", route, coachID, templateID)
	handlers.RespondNoContent(w)
}

// ListOverrides GET /api/v1/coaches/{coachId}/availability/overrides
// Query params: type, from, to (опционально)
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	const route = "GET /coaches/{id}/availability/overrides"

	coachID, ok := h.coachID(w, r, route)
	if !ok {
		return
	}

	query := r.URL.Query()
	req, err := ToListRequest(coachID, query.Get("type"), query.Get("from"), query.Get("to"))
	if err != nil {
		h.logger.Warn("%s - Invalid parameters: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListOverrides(r.Context(), req)
	if err != nil {
		h.respondError(w, route, coachID, err)
		return
	}

	h.logger.Info("%s - Overrides retrieved: coach_id=%d, count=%d", route, coachID, len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateOverride POST /api/v1/coaches/{coachId}/availability/overrides
func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	const route = "POST /coaches/{id}/availability/overrides"

	coachID, ok := h.coachID(w, r, route)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r, route)
	if !ok {
		return
	}

	var req models.CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid JSON: coach_id=%d, error=%v", route, coachID, err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}
	req.UserID = userID
	req.CoachID = coachID

	result, err := h.service.CreateOverride(r.Context(), &req)
	if err != nil {
		h.respondError(w, route, coachID, err)
		return
	}

	h.logger.Info("%s - Override created: coach_id=%d, override_id=%d, date=%s", route, coachID, result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteOverride DELETE /api/v1/coaches/{coachId}/availability/overrides/{overrideId}
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /coaches/{id}/availability/overrides/{id}"

	coachID, ok := h.coachID(w, r, route)
	if !ok {
		return
	}
	overrideID, err := strconv.ParseInt(mux.Vars(r)["overrideId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid override ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}
	userID, ok := h.userID(w, r, route)
	if !ok {
		return
	}

	if err := h.service.DeleteOverride(r.Context(), userID, coachID, overrideID); err != nil {
		h.respondError(w, route, coachID, err)
		return
	}

	h.logger.Info("%s - Override deleted: coach_id=%d, override_id=%d", route, coachID, overrideID)
	handlers.RespondNoContent(w)
}

func (h *Handler) coachID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	coachID, err := strconv.ParseInt(mux.Vars(r)["coachId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid coach ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidCoachID)
		return 0, false
	}
	return coachID, true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
	}
	return userID, ok
}

func (h *Handler) respondError(w http.ResponseWriter, route string, coachID int64, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: coach_id=%d, error=%v", route, coachID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, availability.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: coach_id=%d", route, coachID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, availability.ErrTemplateNotFound):
		h.logger.Warn("%s - Template not found: coach_id=%d", route, coachID)
		handlers.RespondNotFound(w, msgTemplateNotFound)

	case errors.Is(err, availability.ErrOverrideNotFound):
		h.logger.Warn("%s - Override not found: coach_id=%d", route, coachID)
		handlers.RespondNotFound(w, msgOverrideNotFound)

	default:
		h.logger.Error("%s - Failed: coach_id=%d, error=%v", route, coachID, err)
		handlers.RespondInternalError(w)
	}
}
