package domain

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

// AvailabilityTemplate represents a recurring weekly capacity window of a coach
// Invariant: StartTime < EndTime, MaxConcurrentClients >= 1
type AvailabilityTemplate struct {
	ID                   int64
	CoachID              int64
	BookingType          BookingType
	DayOfWeek            int // 0-6, Sunday = 0 (time.Weekday)
	StartTime            types.TimeString
	EndTime              types.TimeString
	MaxConcurrentClients int
	CreatedAt            time.Time
}

// Weekday returns the template day as time.Weekday
func (t *AvailabilityTemplate) Weekday() time.Weekday {
	return time.Weekday(t.DayOfWeek)
}

// AvailabilityOverride represents a date-specific exception over the weekly template
// A full-day override has no StartTime/EndTime and applies to the whole date
// Invariant: if IsBlocked is false, MaxConcurrentClients is set and >= 1
type AvailabilityOverride struct {
	ID                   int64
	CoachID              int64
	BookingType          BookingType
	Date                 time.Time // date only, interpreted in the coach time zone
	StartTime            *types.TimeString
	EndTime              *types.TimeString
	IsBlocked            bool
	MaxConcurrentClients *int
	CreatedAt            time.Time
}

// IsFullDay returns true if the override applies to the whole date
func (o *AvailabilityOverride) IsFullDay() bool {
	return o.StartTime == nil || o.EndTime == nil
}

// Capacity returns the override concurrency cap (0 for blocks)
func (o *AvailabilityOverride) Capacity() int {
	if o.IsBlocked || o.MaxConcurrentClients == nil {
		return 0
	}
	return *o.MaxConcurrentClients
}

// AvailabilityFilter filter for template/override queries
type AvailabilityFilter struct {
	CoachID     int64
	BookingType *BookingType
	DayOfWeek   *int
	From        *time.Time // overrides only, inclusive date
	To          *time.Time // overrides only, inclusive date
}
