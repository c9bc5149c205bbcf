package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/settings"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

const coachID int64 = 1

// Понедельник, 10 марта 2025
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeDirectory struct {
	exists bool
	err    error
}

func (d fakeDirectory) CoachExists(context.Context, int64) (bool, error) { return d.exists, d.err }

func newTestUseCase(t *testing.T, store *memory.Store, dir CoachDirectory) *UseCase {
	t.Helper()
	log := logger.NewNop()
	uc := NewUseCase(store, store, settings.NewService(store, log), dir, store, log)
	// Воскресенье утром: понедельник целиком за пределами 12-часового окна уведомления
	uc.timeProvider = fixedClock{now: monday.Add(-16 * time.Hour)}
	return uc
}

func addTemplate(t *testing.T, store *memory.Store, day time.Weekday, start, end string, maxClients int) {
	t.Helper()
	_, err := store.CreateTemplate(context.Background(), &domain.AvailabilityTemplate{
		CoachID:              coachID,
		BookingType:          domain.BookingTypeSession,
		DayOfWeek:            int(day),
		StartTime:            types.TimeString(start),
		EndTime:              types.TimeString(end),
		MaxConcurrentClients: maxClients,
	})
	require.NoError(t, err)
}

func addBooking(t *testing.T, store *memory.Store, clientID int64, hour int) {
	t.Helper()
	start := monday.Add(time.Duration(hour) * time.Hour)
	_, err := store.Create(context.Background(), &domain.Booking{
		ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeSession,
		StartsAt: start, EndsAt: start.Add(time.Hour), Status: domain.StatusConfirmed,
		QuotaSource: domain.QuotaSourceHybrid,
	})
	require.NoError(t, err)
}

func starts(slots []domain.AvailableSlot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.StartsAt.UTC().Format("Mon 15:04"))
	}
	return result
}

func TestExecuteMondayScenario(t *testing.T) {
	store := memory.NewStore()
	addTemplate(t, store, time.Monday, "09:00", "12:00", 2)
	addBooking(t, store, 10, 10)
	uc := newTestUseCase(t, store, fakeDirectory{exists: true})

	resp, err := uc.Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Mon 09:00", "Mon 10:00", "Mon 11:00"}, starts(resp.Slots))
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[1].TotalSpots)
	assert.Equal(t, 60, resp.DurationMinutes)

	// Второй клиент занимает 10:00 - слот пропадает
	addBooking(t, store, 11, 10)

	resp, err = uc.Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mon 09:00", "Mon 11:00"}, starts(resp.Slots))
}

func TestExecuteFullDayBlock(t *testing.T) {
	store := memory.NewStore()
	addTemplate(t, store, time.Monday, "09:00", "12:00", 2)
	_, err := store.CreateOverride(context.Background(), &domain.AvailabilityOverride{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday, IsBlocked: true,
	})
	require.NoError(t, err)
	uc := newTestUseCase(t, store, fakeDirectory{exists: true})

	resp, err := uc.Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteRange(t *testing.T) {
	store := memory.NewStore()
	addTemplate(t, store, time.Monday, "09:00", "10:00", 1)
	addTemplate(t, store, time.Wednesday, "18:00", "19:30", 1)
	uc := newTestUseCase(t, store, fakeDirectory{exists: true})

	resp, err := uc.Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday, Days: 7,
		DurationMinutes: ptr.Ptr(45),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mon 09:00", "Wed 18:00", "Wed 18:45"}, starts(resp.Slots))
	assert.Equal(t, 45, resp.DurationMinutes)
}

func TestExecuteCheckinHasOwnTemplates(t *testing.T) {
	store := memory.NewStore()
	addTemplate(t, store, time.Monday, "09:00", "12:00", 2)
	uc := newTestUseCase(t, store, fakeDirectory{exists: true})

	resp, err := uc.Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeCheckin, Date: monday,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteCoachDirectory(t *testing.T) {
	store := memory.NewStore()
	addTemplate(t, store, time.Monday, "09:00", "10:00", 1)

	_, err := newTestUseCase(t, store, fakeDirectory{exists: false}).Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// UserService недоступен: расписание все равно отдается
	resp, err := newTestUseCase(t, store, fakeDirectory{exists: true, err: errors.New("timeout")}).Execute(context.Background(), &Request{
		CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 1)
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no coach", req: Request{BookingType: domain.BookingTypeSession, Date: monday}},
		{name: "unknown type", req: Request{CoachID: coachID, BookingType: "yoga", Date: monday}},
		{name: "no date", req: Request{CoachID: coachID, BookingType: domain.BookingTypeSession}},
		{name: "range too long", req: Request{CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday, Days: 32}},
		{name: "zero duration", req: Request{CoachID: coachID, BookingType: domain.BookingTypeSession, Date: monday, DurationMinutes: ptr.Ptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(t, memory.NewStore(), fakeDirectory{exists: true})

			_, err := uc.Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
