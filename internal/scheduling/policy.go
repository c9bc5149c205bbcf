package scheduling

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Policy evaluates time-based booking rules of a coach at a fixed instant
type Policy struct {
	Settings *domain.CoachBookingSettings
	Now      time.Time
}

// NewPolicy creates a policy evaluated at now
func NewPolicy(settings *domain.CoachBookingSettings, now time.Time) Policy {
	return Policy{Settings: settings, Now: now}
}

// CheckNotice fails if startsAt is in the past or closer than the minimum notice
func (p Policy) CheckNotice(startsAt time.Time) error {
	if startsAt.Before(p.Now) || startsAt.Sub(p.Now) < p.Settings.MinNotice() {
		return domain.ErrNoticeViolation
	}
	return nil
}

// CheckWindow fails if startsAt is later than startOfToday + bookingWindowDays.
// "Today" is the coach's calendar date.
func (p Policy) CheckWindow(startsAt time.Time) error {
	if startsAt.After(p.Horizon()) {
		return domain.ErrWindowViolation
	}
	return nil
}

// Horizon returns the latest permitted start
func (p Policy) Horizon() time.Time {
	loc := p.Settings.Location()
	return startOfDay(p.Now.In(loc), loc).AddDate(0, 0, p.Settings.BookingWindowDays)
}

// CheckBookable applies every rule a new slot must satisfy
func (p Policy) CheckBookable(slot domain.Slot) error {
	if err := p.CheckNotice(slot.StartsAt); err != nil {
		return err
	}
	return p.CheckWindow(slot.StartsAt)
}

// CheckModifiable decides whether actor may still cancel or move the booking.
// A coach bypasses the notice window when the settings allow it.
func (p Policy) CheckModifiable(booking *domain.Booking, actor domain.Actor) error {
	if actor == domain.ActorCoach && p.Settings.CoachCancelBypassesNotice {
		return nil
	}
	return p.CheckNotice(booking.StartsAt)
}

// CheckDuration fails if the slot length differs from the configured length of the type
func (p Policy) CheckDuration(slot domain.Slot, bookingType domain.BookingType) error {
	if !slot.IsValid() {
		return domain.ErrInvalidInput
	}
	if slot.Duration() != p.Duration(bookingType) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Duration returns the configured appointment length of a type
func (p Policy) Duration(bookingType domain.BookingType) time.Duration {
	return time.Duration(p.Settings.DurationFor(bookingType)) * time.Minute
}
