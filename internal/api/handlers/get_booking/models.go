package get_booking

import (
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
)

// GetBookingResponse бронирование и роль, в которой его смотрит пользователь
type GetBookingResponse struct {
	Booking    *models.BookingResponse `json:"booking"`
	ViewerRole domain.Actor            `json:"viewerRole"`
}

// viewerRole роль пользователя в бронировании: клиент или тренер
func viewerRole(b *models.BookingResponse, userID int64) domain.Actor {
	if b.CoachID == userID {
		return domain.ActorCoach
	}
	return domain.ActorClient
}
