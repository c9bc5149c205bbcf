package domain

import "time"

// CoachBookingSettings defines booking policy of a coach
type CoachBookingSettings struct {
	CoachID                   int64
	BookingWindowDays         int // how far into the future bookings are permitted
	MinNoticeHours            int // minimal lead time for booking, reschedule and cancel
	RenewalReminderThreshold  int // remaining sessions at which the client is reminded to renew
	SessionDurationMinutes    int
	CheckinDurationMinutes    int
	TimeZone                  string // IANA name, availability times are wall clock in this zone
	CoachCancelBypassesNotice bool   // coach may cancel/reschedule inside the notice window
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// DefaultSettings returns settings used when a coach has not configured anything
func DefaultSettings(coachID int64) *CoachBookingSettings {
	return &CoachBookingSettings{
		CoachID:                   coachID,
		BookingWindowDays:         DefaultBookingWindowDays,
		MinNoticeHours:            DefaultMinNoticeHours,
		RenewalReminderThreshold:  DefaultRenewalReminderThreshold,
		SessionDurationMinutes:    DefaultSessionDurationMinutes,
		CheckinDurationMinutes:    DefaultCheckinDurationMinutes,
		TimeZone:                  DefaultTimeZone,
		CoachCancelBypassesNotice: DefaultCoachCancelBypassesNotice,
	}
}

// DurationFor returns the configured appointment length for a booking type
func (s *CoachBookingSettings) DurationFor(t BookingType) int {
	if t == BookingTypeCheckin {
		return s.CheckinDurationMinutes
	}
	return s.SessionDurationMinutes
}

// Location returns the coach time zone, UTC if unknown
func (s *CoachBookingSettings) Location() *time.Location {
	if s.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MinNotice returns the notice window as a duration
func (s *CoachBookingSettings) MinNotice() time.Duration {
	return time.Duration(s.MinNoticeHours) * time.Hour
}
