package reschedule_booking

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// Request модель запроса на перенос бронирования
type Request struct {
	UserID    int64       // Клиент или тренер бронирования
	BookingID int64       // ID бронирования
	NewSlot   domain.Slot // Новый интервал
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	Booking  *domain.Booking
	Previous domain.Slot
	Actor    domain.Actor
}
