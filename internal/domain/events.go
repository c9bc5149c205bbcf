package domain

// BookingEventType is the kind of post-commit notification
type BookingEventType string

const (
	EventBookingConfirmed   BookingEventType = "confirmed"
	EventBookingCancelled   BookingEventType = "cancelled"
	EventBookingRescheduled BookingEventType = "rescheduled"
	EventRenewalReminder    BookingEventType = "renewal_reminder"
)

// BookingEvent is sent to the notification dispatcher after the transaction commits
type BookingEvent struct {
	Type      BookingEventType
	BookingID int64
	ClientID  int64
	CoachID   int64

	// Only for EventRenewalReminder
	PackageID         int64
	RemainingSessions int
}

// NewBookingEvent builds an event for a booking
func NewBookingEvent(t BookingEventType, b *Booking) BookingEvent {
	return BookingEvent{
		Type:      t,
		BookingID: b.ID,
		ClientID:  b.ClientID,
		CoachID:   b.CoachID,
	}
}

// NewRenewalReminder builds a reminder for a package that is running out
func NewRenewalReminder(b *Booking, pkg *SessionPackage) BookingEvent {
	return BookingEvent{
		Type:              EventRenewalReminder,
		BookingID:         b.ID,
		ClientID:          b.ClientID,
		CoachID:           b.CoachID,
		PackageID:         pkg.ID,
		RemainingSessions: pkg.RemainingSessions,
	}
}

// AffectsCalendar returns true if the event changes the coach's calendar
func (e BookingEvent) AffectsCalendar() bool {
	return e.Type != EventRenewalReminder
}
