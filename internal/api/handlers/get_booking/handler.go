package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgBookingNotFound  = "бронирование не найдено"
	msgNotAParty        = "бронирование доступно только клиенту и тренеру этой записи"
	msgRoleMismatch     = "роль в заголовке не совпадает с ролью в бронировании"
)

// Handler карточка одного бронирования для клиента или тренера
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
// Если передан X-User-Role, он должен совпадать с ролью пользователя в бронировании
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Not a party: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgNotAParty)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	role := viewerRole(booking, userID)
	if claimed, ok := middleware.GetUserRole(r.Context()); ok && claimed != role {
		h.logger.Warn("GET /bookings/{id} - Role mismatch: booking_id=%d, user_id=%d, claimed=%s, actual=%s",
			bookingID, userID, claimed, role)
		handlers.RespondForbidden(w, msgRoleMismatch)
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, user_id=%d, role=%s", bookingID, userID, role)
	handlers.RespondJSON(w, http.StatusOK, &GetBookingResponse{
		Booking:    booking,
		ViewerRole: role,
	})
}
