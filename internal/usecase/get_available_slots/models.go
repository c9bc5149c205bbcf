package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID          int64              // ID пользователя (для логирования, не влияет на результат)
	CoachID         int64              // ID тренера
	BookingType     domain.BookingType // session | checkin
	Date            time.Time          // Первая дата (без времени, календарь тренера)
	Days            int                // Количество дней, 0 = один день
	DurationMinutes *int               // Длительность слота, по умолчанию из настроек тренера
}

// Response модель ответа со списком доступных слотов
type Response struct {
	CoachID         int64
	BookingType     domain.BookingType
	From            time.Time // полночь первой даты в часовом поясе тренера
	Days            int
	DurationMinutes int
	TimeZone        string
	Slots           []domain.AvailableSlot // упорядочены по началу
}
