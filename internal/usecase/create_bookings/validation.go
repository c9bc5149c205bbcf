package create_bookings

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.CoachID <= 0 {
		return fmt.Errorf("%w: coachID must be positive", ErrInvalidInput)
	}

	if req.ClientID == req.CoachID {
		return fmt.Errorf("%w: coach cannot book themselves", ErrInvalidInput)
	}

	if !req.BookingType.IsValid() {
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, req.BookingType)
	}

	if len(req.Slots) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.Slots) > domain.MaxSlotsPerBatch {
		return fmt.Errorf("%w: at most %d slots per request", ErrInvalidInput, domain.MaxSlotsPerBatch)
	}

	for i, slot := range req.Slots {
		if !slot.IsValid() {
			return fmt.Errorf("%w: slot #%d must end after it starts", ErrInvalidInput, i+1)
		}
	}

	if req.PackageID != nil && *req.PackageID <= 0 {
		return fmt.Errorf("%w: packageID must be positive", ErrInvalidInput)
	}

	return nil
}

// sortedSlots возвращает копию слотов, упорядоченную по началу
func sortedSlots(slots []domain.Slot) []domain.Slot {
	sorted := make([]domain.Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartsAt.Before(sorted[j].StartsAt)
	})
	return sorted
}

// span возвращает интервал, покрывающий все слоты
func span(slots []domain.Slot) domain.Slot {
	result := slots[0]
	for _, s := range slots[1:] {
		if s.StartsAt.Before(result.StartsAt) {
			result.StartsAt = s.StartsAt
		}
		if s.EndsAt.After(result.EndsAt) {
			result.EndsAt = s.EndsAt
		}
	}
	return result
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
