package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

func TestPolicyCheckNotice(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	policy := NewPolicy(domain.DefaultSettings(1), now)

	assert.NoError(t, policy.CheckNotice(now.Add(12*time.Hour)))
	assert.ErrorIs(t, policy.CheckNotice(now.Add(11*time.Hour+59*time.Minute)), domain.ErrNoticeViolation)
	assert.ErrorIs(t, policy.CheckNotice(now.Add(-time.Minute)), domain.ErrNoticeViolation)

	settings := domain.DefaultSettings(1)
	settings.MinNoticeHours = 0
	assert.ErrorIs(t, NewPolicy(settings, now).CheckNotice(now.Add(-time.Minute)), domain.ErrNoticeViolation, "past is never bookable")
}

func TestPolicyCheckWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	settings := domain.DefaultSettings(1)
	settings.BookingWindowDays = 7
	policy := NewPolicy(settings, now)

	assert.NoError(t, policy.CheckWindow(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, policy.CheckWindow(time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC)), domain.ErrWindowViolation)
}

func TestPolicyCheckModifiable(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	booking := &domain.Booking{StartsAt: now.Add(10 * time.Hour)}

	settings := domain.DefaultSettings(1)
	policy := NewPolicy(settings, now)

	assert.ErrorIs(t, policy.CheckModifiable(booking, domain.ActorClient), domain.ErrNoticeViolation)
	assert.NoError(t, policy.CheckModifiable(booking, domain.ActorCoach))

	settings.CoachCancelBypassesNotice = false
	assert.ErrorIs(t, policy.CheckModifiable(booking, domain.ActorCoach), domain.ErrNoticeViolation)
}

func TestPolicyCheckDuration(t *testing.T) {
	policy := NewPolicy(domain.DefaultSettings(1), time.Now())
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, policy.CheckDuration(domain.Slot{StartsAt: start, EndsAt: start.Add(time.Hour)}, domain.BookingTypeSession))
	assert.NoError(t, policy.CheckDuration(domain.Slot{StartsAt: start, EndsAt: start.Add(30 * time.Minute)}, domain.BookingTypeCheckin))
	assert.ErrorIs(t, policy.CheckDuration(domain.Slot{StartsAt: start, EndsAt: start.Add(30 * time.Minute)}, domain.BookingTypeSession), domain.ErrInvalidInput)
	assert.ErrorIs(t, policy.CheckDuration(domain.Slot{StartsAt: start, EndsAt: start}, domain.BookingTypeSession), domain.ErrInvalidInput)
}
