package cancel_booking

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	UserID    int64   // Клиент или тренер бронирования
	BookingID int64   // ID бронирования
	Reason    *string // Причина отмены (опционально)
}

// Response модель ответа
type Response struct {
	Booking          *domain.Booking
	AlreadyCancelled bool // повторная отмена: ничего не изменилось, квота не возвращалась
}
