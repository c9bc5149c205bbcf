package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if !req.NewSlot.IsValid() {
		return fmt.Errorf("%w: new slot must end after it starts", ErrInvalidInput)
	}

	return nil
}

// overlapsAny сообщает, пересекается ли слот хотя бы с одним бронированием
func overlapsAny(slot domain.Slot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if slot.Overlaps(b.Slot()) {
			return true
		}
	}
	return false
}
