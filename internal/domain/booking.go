package domain

import "time"

// BookingType represents what kind of appointment is booked
type BookingType string

const (
	BookingTypeSession BookingType = "session"
	BookingTypeCheckin BookingType = "checkin"
)

// IsValid returns true for known booking types
func (t BookingType) IsValid() bool {
	return t == BookingTypeSession || t == BookingTypeCheckin
}

// BookingStatus represents the status of a booking
// The only allowed transition is confirmed -> cancelled
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Actor identifies who performs an operation on a booking
type Actor string

const (
	ActorClient Actor = "client"
	ActorCoach  Actor = "coach"
)

// QuotaSource identifies which quota a booking consumed, so that cancel refunds exactly it
type QuotaSource string

const (
	QuotaSourcePackage QuotaSource = "package"
	QuotaSourceHybrid  QuotaSource = "hybrid"
	QuotaSourceCheckin QuotaSource = "checkin"
)

// Booking represents a confirmed or cancelled appointment between a client and a coach
type Booking struct {
	ID          int64
	ClientID    int64
	CoachID     int64
	BookingType BookingType
	StartsAt    time.Time
	EndsAt      time.Time
	Status      BookingStatus

	QuotaSource QuotaSource
	PackageID   *int64 // set when QuotaSource == package

	CancelledBy        *Actor
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Slot returns the booked interval
func (b *Booking) Slot() Slot {
	return Slot{StartsAt: b.StartsAt, EndsAt: b.EndsAt}
}

// ActorFor returns the role userID plays for this booking, false if it is neither party
func (b *Booking) ActorFor(userID int64) (Actor, bool) {
	switch userID {
	case b.ClientID:
		return ActorClient, true
	case b.CoachID:
		return ActorCoach, true
	default:
		return "", false
	}
}

// BookingsFilter filter for ledger queries
type BookingsFilter struct {
	CoachID         *int64
	ClientID        *int64
	BookingType     *BookingType
	From            *time.Time // StartsAt < To and EndsAt > From (interval intersection)
	To              *time.Time
	IncludeInactive bool
	ExcludeID       *int64
}
