package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Window is a resolved availability interval on a concrete date with its concurrency cap
type Window struct {
	domain.Slot
	MaxConcurrent int
}

// ResolveWindows builds the availability windows of one date from weekly templates and
// date-specific overrides. Times are wall clock in loc.
//
// Precedence:
//  1. a full-day blocked override closes the date;
//  2. a full-day available override replaces the templates with one whole-day window;
//  3. otherwise templates of the weekday are used, and partial overrides narrow/extend
//     only their own sub-range (blocked ranges are cut last, so blocks always win).
func ResolveWindows(
	date time.Time,
	loc *time.Location,
	templates []*domain.AvailabilityTemplate,
	overrides []*domain.AvailabilityOverride,
) []Window {
	dayStart := startOfDay(date, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	dayOverrides := make([]*domain.AvailabilityOverride, 0, len(overrides))
	for _, o := range overrides {
		if sameDate(o.Date, dayStart) {
			dayOverrides = append(dayOverrides, o)
		}
	}

	// Полнодневные исключения
	var fullDayOpen *domain.AvailabilityOverride
	for _, o := range dayOverrides {
		if !o.IsFullDay() {
			continue
		}
		if o.IsBlocked {
			return []Window{}
		}
		if fullDayOpen == nil {
			fullDayOpen = o
		}
	}

	var windows []Window
	if fullDayOpen != nil {
		windows = []Window{{
			Slot:          domain.Slot{StartsAt: dayStart, EndsAt: dayEnd},
			MaxConcurrent: fullDayOpen.Capacity(),
		}}
	} else {
		weekday := dayStart.Weekday()
		for _, t := range templates {
			if t.Weekday() != weekday {
				continue
			}
			w := Window{
				Slot: domain.Slot{
					StartsAt: t.StartTime.On(dayStart, loc),
					EndsAt:   t.EndTime.On(dayStart, loc),
				},
				MaxConcurrent: t.MaxConcurrentClients,
			}
			if w.IsValid() && w.MaxConcurrent > 0 {
				windows = append(windows, w)
			}
		}
	}

	// Частичные исключения: сначала вырезаем их диапазоны из базовых окон,
	// затем добавляем открытые диапазоны со своим лимитом, блоки вырезаем последними
	partial := make([]*domain.AvailabilityOverride, 0, len(dayOverrides))
	for _, o := range dayOverrides {
		if !o.IsFullDay() {
			partial = append(partial, o)
		}
	}

	for _, o := range partial {
		windows = subtract(windows, overrideRange(o, dayStart, loc))
	}
	for _, o := range partial {
		if o.IsBlocked || o.Capacity() <= 0 {
			continue
		}
		r := overrideRange(o, dayStart, loc)
		if r.IsValid() {
			windows = append(windows, Window{Slot: r, MaxConcurrent: o.Capacity()})
		}
	}
	for _, o := range partial {
		if o.IsBlocked {
			windows = subtract(windows, overrideRange(o, dayStart, loc))
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].StartsAt.Before(windows[j].StartsAt)
	})

	return windows
}

// subtract removes cut from every window, splitting windows when needed
func subtract(windows []Window, cut domain.Slot) []Window {
	if !cut.IsValid() {
		return windows
	}

	result := make([]Window, 0, len(windows))
	for _, w := range windows {
		if !w.Overlaps(cut) {
			result = append(result, w)
			continue
		}
		if w.StartsAt.Before(cut.StartsAt) {
			result = append(result, Window{
				Slot:          domain.Slot{StartsAt: w.StartsAt, EndsAt: cut.StartsAt},
				MaxConcurrent: w.MaxConcurrent,
			})
		}
		if w.EndsAt.After(cut.EndsAt) {
			result = append(result, Window{
				Slot:          domain.Slot{StartsAt: cut.EndsAt, EndsAt: w.EndsAt},
				MaxConcurrent: w.MaxConcurrent,
			})
		}
	}
	return result
}

func overrideRange(o *domain.AvailabilityOverride, dayStart time.Time, loc *time.Location) domain.Slot {
	return domain.Slot{
		StartsAt: o.StartTime.On(dayStart, loc),
		EndsAt:   o.EndTime.On(dayStart, loc),
	}
}

// startOfDay returns midnight of t's calendar date in loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// sameDate compares calendar dates (the override date carries no zone semantics)
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
