package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

// 2025-03-10 is a Monday
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func mondayTemplate(start, end string, maxClients int) *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		CoachID:              1,
		BookingType:          domain.BookingTypeSession,
		DayOfWeek:            int(time.Monday),
		StartTime:            types.TimeString(start),
		EndTime:              types.TimeString(end),
		MaxConcurrentClients: maxClients,
	}
}

func partialOverride(start, end string, blocked bool, maxClients int) *domain.AvailabilityOverride {
	o := &domain.AvailabilityOverride{
		CoachID:     1,
		BookingType: domain.BookingTypeSession,
		Date:        monday,
		StartTime:   ptr.Ptr(types.TimeString(start)),
		EndTime:     ptr.Ptr(types.TimeString(end)),
		IsBlocked:   blocked,
	}
	if !blocked {
		o.MaxConcurrentClients = ptr.Ptr(maxClients)
	}
	return o
}

func TestResolveWindowsTemplatesOnly(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{
		mondayTemplate("14:00", "16:00", 1),
		mondayTemplate("09:00", "12:00", 2),
		{DayOfWeek: int(time.Tuesday), StartTime: "09:00", EndTime: "12:00", MaxConcurrentClients: 5},
	}

	windows := ResolveWindows(monday, time.UTC, templates, nil)

	require.Len(t, windows, 2)
	assert.Equal(t, at(9, 0), windows[0].StartsAt)
	assert.Equal(t, at(12, 0), windows[0].EndsAt)
	assert.Equal(t, 2, windows[0].MaxConcurrent)
	assert.Equal(t, at(14, 0), windows[1].StartsAt)
}

func TestResolveWindowsFullDayBlockWins(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{mondayTemplate("09:00", "12:00", 2)}
	overrides := []*domain.AvailabilityOverride{
		{Date: monday, MaxConcurrentClients: ptr.Ptr(3)},
		{Date: monday, IsBlocked: true},
		partialOverride("13:00", "14:00", false, 1),
	}

	windows := ResolveWindows(monday, time.UTC, templates, overrides)

	assert.Empty(t, windows)
}

func TestResolveWindowsFullDayExtraAvailability(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{mondayTemplate("09:00", "12:00", 2)}
	overrides := []*domain.AvailabilityOverride{{Date: monday, MaxConcurrentClients: ptr.Ptr(4)}}

	windows := ResolveWindows(monday, time.UTC, templates, overrides)

	require.Len(t, windows, 1)
	assert.Equal(t, at(0, 0), windows[0].StartsAt)
	assert.Equal(t, monday.AddDate(0, 0, 1), windows[0].EndsAt)
	assert.Equal(t, 4, windows[0].MaxConcurrent)
}

func TestResolveWindowsPartialOverrides(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{mondayTemplate("09:00", "12:00", 2)}

	t.Run("partial block splits the template", func(t *testing.T) {
		overrides := []*domain.AvailabilityOverride{partialOverride("10:00", "11:00", true, 0)}

		windows := ResolveWindows(monday, time.UTC, templates, overrides)

		require.Len(t, windows, 2)
		assert.Equal(t, domain.Slot{StartsAt: at(9, 0), EndsAt: at(10, 0)}, windows[0].Slot)
		assert.Equal(t, domain.Slot{StartsAt: at(11, 0), EndsAt: at(12, 0)}, windows[1].Slot)
	})

	t.Run("partial availability replaces only its range", func(t *testing.T) {
		overrides := []*domain.AvailabilityOverride{partialOverride("11:00", "13:00", false, 5)}

		windows := ResolveWindows(monday, time.UTC, templates, overrides)

		require.Len(t, windows, 2)
		assert.Equal(t, domain.Slot{StartsAt: at(9, 0), EndsAt: at(11, 0)}, windows[0].Slot)
		assert.Equal(t, 2, windows[0].MaxConcurrent)
		assert.Equal(t, domain.Slot{StartsAt: at(11, 0), EndsAt: at(13, 0)}, windows[1].Slot)
		assert.Equal(t, 5, windows[1].MaxConcurrent)
	})

	t.Run("partial block beats partial availability", func(t *testing.T) {
		overrides := []*domain.AvailabilityOverride{
			partialOverride("13:00", "15:00", false, 1),
			partialOverride("14:00", "15:00", true, 0),
		}

		windows := ResolveWindows(monday, time.UTC, templates, overrides)

		require.Len(t, windows, 2)
		assert.Equal(t, domain.Slot{StartsAt: at(13, 0), EndsAt: at(14, 0)}, windows[1].Slot)
	})
}

func TestResolveWindowsIgnoresOtherDates(t *testing.T) {
	templates := []*domain.AvailabilityTemplate{mondayTemplate("09:00", "12:00", 2)}
	overrides := []*domain.AvailabilityOverride{{Date: monday.AddDate(0, 0, 7), IsBlocked: true}}

	windows := ResolveWindows(monday, time.UTC, templates, overrides)

	require.Len(t, windows, 1)
}

func TestResolveWindowsCoachTimeZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	templates := []*domain.AvailabilityTemplate{mondayTemplate("09:00", "10:00", 1)}

	windows := ResolveWindows(monday, loc, templates, nil)

	require.Len(t, windows, 1)
	assert.True(t, windows[0].StartsAt.Equal(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)))
}

func TestResolveWindowsClockChangeDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	tmpl := mondayTemplate("09:00", "12:00", 1)
	tmpl.DayOfWeek = int(time.Sunday)

	windows := ResolveWindows(sunday, loc, []*domain.AvailabilityTemplate{tmpl}, nil)

	require.Len(t, windows, 1)
	start := windows[0].StartsAt.In(loc)
	end := windows[0].EndsAt.In(loc)
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 12, end.Hour())
	assert.Equal(t, 3*time.Hour, windows[0].Duration())
}
