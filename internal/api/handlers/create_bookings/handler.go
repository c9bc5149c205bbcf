package create_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	createBookings "github.com/m04kA/SMC-CoachBookingService/internal/usecase/create_bookings"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidJSON     = "некорректный формат запроса"
	msgInvalidSlots    = "некорректные слоты, ожидается RFC3339"
	msgInvalidInput    = "некорректные данные бронирования"
	msgCoachNotFound   = "тренер не найден"
	msgPackageNotFound = "пакет сессий не найден"
	msgRejected        = "бронирование отклонено, ни один слот не забронирован"
)

type Handler struct {
	useCase CreateBookingsUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Пакетная запись: либо все слоты, либо ни одного
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid JSON: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid slots: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidSlots)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rejection *domain.BookingRejection
		switch {
		case errors.As(err, &rejection):
			h.logger.Warn("POST /bookings - Rejected: client_id=%d, coach_id=%d, violations=%d",
				userID, req.CoachID, len(rejection.Violations))
			handlers.RespondRejection(w, msgRejected, rejection)

		case errors.Is(err, createBookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBookings.ErrCoachNotFound):
			h.logger.Warn("POST /bookings - Coach not found: coach_id=%d", req.CoachID)
			handlers.RespondNotFound(w, msgCoachNotFound)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Package not found: client_id=%d, error=%v", userID, err)
			handlers.RespondNotFound(w, msgPackageNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create bookings: client_id=%d, coach_id=%d, error=%v",
				userID, req.CoachID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Bookings created: client_id=%d, coach_id=%d, count=%d, quota_source=%s",
		userID, req.CoachID, len(result.Bookings), result.QuotaSource)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
