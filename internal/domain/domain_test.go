package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRejectionMatchesReasons(t *testing.T) {
	slot := Slot{
		StartsAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	rejection := &BookingRejection{}
	assert.False(t, rejection.HasViolations())

	rejection.Add(&slot, ErrCapacityExceeded)
	rejection.Add(nil, ErrQuotaExhausted)
	require.True(t, rejection.HasViolations())

	var err error = fmt.Errorf("create bookings: %w", rejection)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	assert.NotErrorIs(t, err, ErrNoticeViolation)

	var got *BookingRejection
	require.ErrorAs(t, err, &got)
	assert.Len(t, got.Violations, 2)
	assert.Contains(t, got.Error(), "capacity exceeded [2025-03-10T09:00Z]")
	assert.Contains(t, got.Error(), "quota exhausted")
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrCapacityExceeded, "capacity_exceeded"},
		{fmt.Errorf("wrapped: %w", ErrQuotaExhausted), "quota_exhausted"},
		{ErrNoticeViolation, "notice_violation"},
		{ErrWindowViolation, "window_violation"},
		{ErrOverlapConflict, "overlap_conflict"},
		{ErrSlotNotOffered, "slot_not_offered"},
		{ErrNotFound, "not_found"},
		{ErrInvalidInput, "invalid_input"},
		{ErrBookingCancelled, "booking_cancelled"},
		{errors.New("db is down"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestSlotIntervals(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 3, 10, h, 0, 0, 0, time.UTC) }
	nine := Slot{StartsAt: at(9), EndsAt: at(10)}

	assert.True(t, nine.IsValid())
	assert.False(t, Slot{StartsAt: at(10), EndsAt: at(9)}.IsValid())
	assert.Equal(t, time.Hour, nine.Duration())

	assert.False(t, nine.Overlaps(Slot{StartsAt: at(10), EndsAt: at(11)}), "touching slots do not overlap")
	assert.True(t, nine.Overlaps(Slot{StartsAt: at(9).Add(30 * time.Minute), EndsAt: at(11)}))

	assert.True(t, Slot{StartsAt: at(8), EndsAt: at(12)}.Contains(nine))
	assert.False(t, nine.Contains(Slot{StartsAt: at(8), EndsAt: at(10)}))

	moscow := time.FixedZone("MSK", 3*3600)
	assert.True(t, nine.Equal(Slot{StartsAt: at(9).In(moscow), EndsAt: at(10).In(moscow)}))
}

func TestBookingActorFor(t *testing.T) {
	b := &Booking{ClientID: 1, CoachID: 2, Status: StatusConfirmed}

	actor, ok := b.ActorFor(1)
	assert.True(t, ok)
	assert.Equal(t, ActorClient, actor)

	actor, ok = b.ActorFor(2)
	assert.True(t, ok)
	assert.Equal(t, ActorCoach, actor)

	_, ok = b.ActorFor(3)
	assert.False(t, ok)

	assert.True(t, b.IsActive())
	b.Status = StatusCancelled
	assert.True(t, b.IsCancelled())
	assert.False(t, b.IsActive())
}

func TestQuotaHelpers(t *testing.T) {
	counter := &UsageCounter{Used: 5, Limit: 4}
	assert.Equal(t, 0, counter.Remaining())
	counter.Used = 1
	assert.Equal(t, 3, counter.Remaining())

	moscow := time.FixedZone("MSK", 3*3600)
	start := PeriodStart(time.Date(2025, 4, 1, 1, 0, 0, 0, moscow))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)

	expires := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	pkg := &SessionPackage{ExpiresAt: &expires}
	assert.True(t, pkg.IsExpired(expires))
	assert.False(t, pkg.IsExpired(expires.Add(-time.Second)))
	assert.False(t, (&SessionPackage{}).IsExpired(expires))

	hourSlot := Slot{StartsAt: expires, EndsAt: expires.Add(time.Hour)}
	assert.True(t, (&SessionPackage{SessionDurationMinutes: 60}).Fits(hourSlot))
	assert.False(t, (&SessionPackage{SessionDurationMinutes: 30}).Fits(hourSlot))
	assert.True(t, (&SessionPackage{}).Fits(hourSlot))
}
