package domain

// Default configuration values
const (
	DefaultBookingWindowDays         = 90
	DefaultMinNoticeHours            = 12
	DefaultRenewalReminderThreshold  = 2
	DefaultSessionDurationMinutes    = 60
	DefaultCheckinDurationMinutes    = 30
	DefaultTimeZone                  = "UTC"
	DefaultCoachCancelBypassesNotice = true
	CheckinMonthlyLimit              = 1
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinConcurrentClients        = 1
	MaxConcurrentClients        = 100
	MinBookingWindowDays        = 1
	MaxBookingWindowDays        = 365
	MinNoticeHours              = 0
	MaxNoticeHours              = 168 // 1 week
	MaxSlotsPerBatch            = 20
	MaxSlotRangeDays            = 31
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
