package create_bookings

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// Request модель запроса на создание пакета бронирований ("быстрая запись" на несколько слотов)
type Request struct {
	ClientID    int64              // ID клиента
	CoachID     int64              // ID тренера
	BookingType domain.BookingType // session | checkin
	Slots       []domain.Slot      // Выбранные слоты
	PackageID   *int64             // Пакет сессий (опционально)
}

// Response модель ответа с созданными бронированиями
type Response struct {
	Bookings       []*domain.Booking  // В порядке начала слотов
	QuotaSource    domain.QuotaSource // Источник, с которого списана квота
	QuotaRemaining int                // Остаток после списания
}
