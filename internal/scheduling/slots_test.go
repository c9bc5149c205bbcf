package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

func window(startHour, endHour, maxClients int) Window {
	return Window{
		Slot:          domain.Slot{StartsAt: at(startHour, 0), EndsAt: at(endHour, 0)},
		MaxConcurrent: maxClients,
	}
}

func confirmed(start, end time.Time) *domain.Booking {
	return &domain.Booking{StartsAt: start, EndsAt: end, Status: domain.StatusConfirmed}
}

// Policy evaluated the Sunday before with no notice, so nothing on Monday is filtered
func openPolicy() Policy {
	settings := domain.DefaultSettings(1)
	settings.MinNoticeHours = 0
	return NewPolicy(settings, monday.AddDate(0, 0, -1))
}

func TestDiscretize(t *testing.T) {
	t.Run("aligned to window start, tail dropped", func(t *testing.T) {
		w := Window{Slot: domain.Slot{StartsAt: at(9, 15), EndsAt: at(11, 45)}, MaxConcurrent: 1}

		slots := Discretize(w, time.Hour)

		require.Len(t, slots, 2)
		assert.Equal(t, at(9, 15), slots[0].StartsAt)
		assert.Equal(t, at(10, 15), slots[0].EndsAt)
		assert.Equal(t, at(10, 15), slots[1].StartsAt)
		assert.Equal(t, at(11, 15), slots[1].EndsAt)
	})

	t.Run("window shorter than duration", func(t *testing.T) {
		assert.Empty(t, Discretize(window(9, 10, 1), 90*time.Minute))
	})

	t.Run("non-positive duration", func(t *testing.T) {
		assert.Empty(t, Discretize(window(9, 10, 1), 0))
	})
}

func TestCountOccupancy(t *testing.T) {
	slot := domain.Slot{StartsAt: at(10, 0), EndsAt: at(11, 0)}
	cancelled := confirmed(at(10, 0), at(11, 0))
	cancelled.Status = domain.StatusCancelled

	bookings := []*domain.Booking{
		confirmed(at(9, 0), at(10, 0)),   // touches start
		confirmed(at(11, 0), at(12, 0)),  // touches end
		confirmed(at(10, 30), at(11, 0)), // inside
		confirmed(at(9, 30), at(10, 30)), // crosses start
		cancelled,
	}

	assert.Equal(t, 2, CountOccupancy(slot, bookings))
}

func TestGoverningWindow(t *testing.T) {
	windows := []Window{window(9, 12, 2), window(14, 16, 1)}

	w, ok := GoverningWindow(windows, domain.Slot{StartsAt: at(15, 0), EndsAt: at(16, 0)}, time.Hour)
	require.True(t, ok)
	assert.Equal(t, 1, w.MaxConcurrent)

	_, ok = GoverningWindow(windows, domain.Slot{StartsAt: at(9, 30), EndsAt: at(10, 30)}, time.Hour)
	assert.False(t, ok, "misaligned slot is not offered")

	_, ok = GoverningWindow(windows, domain.Slot{StartsAt: at(11, 30), EndsAt: at(12, 30)}, 30*time.Minute)
	assert.False(t, ok, "length must equal the duration")

	_, ok = GoverningWindow(windows, domain.Slot{StartsAt: at(12, 0), EndsAt: at(13, 0)}, time.Hour)
	assert.False(t, ok, "outside every window")
}

func TestBuildAvailableSlotsMondayScenario(t *testing.T) {
	windows := []Window{window(9, 12, 2)}

	slots := BuildAvailableSlots(windows, time.Hour, nil, openPolicy())

	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, at(9+i, 0), s.StartsAt)
		assert.Equal(t, 2, s.AvailableSpots)
		assert.Equal(t, 2, s.TotalSpots)
	}

	bookings := []*domain.Booking{confirmed(at(10, 0), at(11, 0))}
	slots = BuildAvailableSlots(windows, time.Hour, bookings, openPolicy())

	require.Len(t, slots, 3)
	assert.Equal(t, 1, slots[1].AvailableSpots)
	assert.True(t, slots[1].IsPartiallyAvailable())

	bookings = append(bookings, confirmed(at(10, 0), at(11, 0)))
	slots = BuildAvailableSlots(windows, time.Hour, bookings, openPolicy())

	require.Len(t, slots, 2)
	assert.Equal(t, at(9, 0), slots[0].StartsAt)
	assert.Equal(t, at(11, 0), slots[1].StartsAt)
}

func TestBuildAvailableSlotsFiltersByPolicy(t *testing.T) {
	settings := domain.DefaultSettings(1)
	settings.MinNoticeHours = 12
	policy := NewPolicy(settings, at(0, 0).Add(-2*time.Hour)) // 22:00 the day before

	slots := BuildAvailableSlots([]Window{window(9, 12, 1)}, time.Hour, nil, policy)

	require.Len(t, slots, 2, "09:00 is only 11h ahead")
	assert.Equal(t, at(10, 0), slots[0].StartsAt)
}

func TestBuildAvailableSlotsOverlappingWindowsReportedOnce(t *testing.T) {
	windows := []Window{window(9, 11, 1), window(10, 12, 3)}

	slots := BuildAvailableSlots(windows, time.Hour, nil, openPolicy())

	require.Len(t, slots, 3)
	assert.Equal(t, 1, slots[1].TotalSpots)
}

func TestCheckCapacity(t *testing.T) {
	windows := []Window{window(9, 12, 1)}
	slot := domain.Slot{StartsAt: at(9, 0), EndsAt: at(10, 0)}

	assert.NoError(t, CheckCapacity(windows, slot, time.Hour, nil))
	assert.ErrorIs(t, CheckCapacity(windows, slot, time.Hour, []*domain.Booking{confirmed(at(9, 0), at(10, 0))}), domain.ErrCapacityExceeded)

	misaligned := domain.Slot{StartsAt: at(9, 30), EndsAt: at(10, 30)}
	assert.ErrorIs(t, CheckCapacity(windows, misaligned, time.Hour, nil), domain.ErrSlotNotOffered)
}

func TestLocalDate(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*3600)
	late := time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, moscow), LocalDate(late, moscow))
}
