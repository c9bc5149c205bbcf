package get_quota

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса, coachId и type обязательны"
	msgForbidden       = "доступ запрещен"
	msgPackageNotFound = "пакет сессий не найден"
)

type Handler struct {
	service QuotaService
	logger  Logger
}

func NewHandler(service QuotaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}/quota
// Query params: coachId, type (обязательны), packageId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{id}/quota - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/{id}/quota - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(clientID, userID, query.Get("coachId"), query.Get("type"), query.Get("packageId"))
	if err != nil {
		h.logger.Warn("GET /clients/{id}/quota - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetQuota(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrAccessDenied):
			h.logger.Warn("GET /clients/{id}/quota - Access denied: client_id=%d, user_id=%d", clientID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /clients/{id}/quota - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /clients/{id}/quota - Package not found: client_id=%d, error=%v", clientID, err)
			handlers.RespondNotFound(w, msgPackageNotFound)

		default:
			h.logger.Error("GET /clients/{id}/quota - Failed to get quota: client_id=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{id}/quota - Quota retrieved: client_id=%d, coach_id=%d, source=%s, remaining=%d",
		clientID, serviceReq.CoachID, result.Source, result.Remaining)
	handlers.RespondJSON(w, http.StatusOK, result)
}
