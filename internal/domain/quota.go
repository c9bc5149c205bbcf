package domain

import "time"

// PlanType describes how a client pays for sessions with a coach
type PlanType string

const (
	PlanTraining PlanType = "training" // prepaid session packages
	PlanHybrid   PlanType = "hybrid"   // monthly session cap
)

// ClientPlan links a client to a coach and defines the session quota source
type ClientPlan struct {
	ClientID           int64
	CoachID            int64
	PlanType           PlanType
	HybridMonthlyLimit int
}

// SessionPackage is a prepaid bundle of sessions
// Invariant: 0 <= RemainingSessions <= TotalSessions
type SessionPackage struct {
	ID                     int64
	ClientID               int64
	CoachID                int64
	TotalSessions          int
	RemainingSessions      int
	SessionDurationMinutes int
	ExpiresAt              *time.Time
	CreatedAt              time.Time
}

// IsExpired returns true if the package can no longer be used for new bookings
func (p *SessionPackage) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Fits reports whether slot has the session length the package was sold with
// A package without a recorded length accepts any slot
func (p *SessionPackage) Fits(slot Slot) bool {
	return p.SessionDurationMinutes <= 0 || slot.Duration() == time.Duration(p.SessionDurationMinutes)*time.Minute
}

// UsageKind identifies a monthly usage counter
type UsageKind string

const (
	UsageHybrid  UsageKind = "hybrid"
	UsageCheckin UsageKind = "checkin"
)

// UsageCounter is a per-client, per-month counter
// Reset at period boundaries happens outside the service: a new period simply has a new row
type UsageCounter struct {
	ClientID    int64
	Kind        UsageKind
	PeriodStart time.Time // first day of the month, UTC
	Used        int
	Limit       int
}

// Remaining returns how many units are left in the period
func (c *UsageCounter) Remaining() int {
	if c.Used >= c.Limit {
		return 0
	}
	return c.Limit - c.Used
}

// QuotaBalance is the freshly resolved quota for one client and booking type
type QuotaBalance struct {
	ClientID    int64
	CoachID     int64
	BookingType BookingType
	Source      QuotaSource
	Remaining   int

	Package *SessionPackage // Source == package, nil if the client has no usable package
	Counter *UsageCounter   // Source == hybrid | checkin
}

// PeriodStart returns the first instant of the month containing t, in UTC
func PeriodStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
