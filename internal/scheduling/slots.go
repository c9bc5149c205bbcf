package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Discretize splits a window into consecutive slots of the given duration starting at the
// window start. A tail shorter than duration is dropped.
func Discretize(w Window, duration time.Duration) []domain.Slot {
	if duration <= 0 || !w.IsValid() {
		return nil
	}

	slots := make([]domain.Slot, 0, int(w.Duration()/duration))
	for start := w.StartsAt; !start.Add(duration).After(w.EndsAt); start = start.Add(duration) {
		slots = append(slots, domain.Slot{StartsAt: start, EndsAt: start.Add(duration)})
	}
	return slots
}

// CountOccupancy returns how many active bookings intersect the slot
func CountOccupancy(slot domain.Slot, bookings []*domain.Booking) int {
	count := 0
	for _, b := range bookings {
		if b.IsActive() && slot.Overlaps(b.Slot()) {
			count++
		}
	}
	return count
}

// GoverningWindow finds the window that offers exactly this slot when discretized with
// the given duration. Windows are expected in resolution order; the first match wins.
func GoverningWindow(windows []Window, slot domain.Slot, duration time.Duration) (Window, bool) {
	if duration <= 0 || slot.Duration() != duration {
		return Window{}, false
	}

	for _, w := range windows {
		if !w.Contains(slot) {
			continue
		}
		if slot.StartsAt.Sub(w.StartsAt)%duration == 0 {
			return w, true
		}
	}
	return Window{}, false
}

// BuildAvailableSlots discretizes the windows and keeps slots that still have room and
// pass the policy. Result is ordered by start; identical intervals produced by
// overlapping windows are reported once, with the cap of the first window.
func BuildAvailableSlots(
	windows []Window,
	duration time.Duration,
	bookings []*domain.Booking,
	policy Policy,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0)
	seen := make(map[int64]struct{})

	for _, w := range windows {
		for _, slot := range Discretize(w, duration) {
			key := slot.StartsAt.UnixNano()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			if policy.CheckBookable(slot) != nil {
				continue
			}

			occupied := CountOccupancy(slot, bookings)
			if occupied >= w.MaxConcurrent {
				continue
			}

			result = append(result, domain.AvailableSlot{
				Slot:           slot,
				AvailableSpots: w.MaxConcurrent - occupied,
				TotalSpots:     w.MaxConcurrent,
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartsAt.Before(result[j].StartsAt)
	})

	return result
}

// CheckCapacity fails with ErrSlotNotOffered if no window offers the slot and with
// ErrCapacityExceeded if the governing window is already full
func CheckCapacity(windows []Window, slot domain.Slot, duration time.Duration, bookings []*domain.Booking) error {
	w, ok := GoverningWindow(windows, slot, duration)
	if !ok {
		return domain.ErrSlotNotOffered
	}
	if CountOccupancy(slot, bookings) >= w.MaxConcurrent {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// LocalDate returns midnight of the calendar date of t as seen in loc
func LocalDate(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t.In(loc), loc)
}
