package create_bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/settings"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

const (
	coachID  int64 = 1
	clientID int64 = 2
)

// Понедельник, 10 марта 2025; "сейчас" - воскресенье 08:00
var (
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	now    = monday.Add(-16 * time.Hour)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeDirectory struct{ exists bool }

func (d fakeDirectory) CoachExists(context.Context, int64) (bool, error) { return d.exists, nil }

type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (n *fakeNotifier) Notify(_ context.Context, event domain.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) types() []domain.BookingEventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]domain.BookingEventType, 0, len(n.events))
	for _, e := range n.events {
		result = append(result, e.Type)
	}
	return result
}

type fakeMetrics struct {
	mu       sync.Mutex
	created  int
	rejected []string
}

func (m *fakeMetrics) BookingCreated(_ string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created += count
}

func (m *fakeMetrics) BookingRejected(_, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, reason)
}

type fixture struct {
	store    *memory.Store
	uc       *UseCase
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNop()
	store := memory.NewStore()
	clock := fixedClock{now: now}
	f := &fixture{store: store, notifier: &fakeNotifier{}, metrics: &fakeMetrics{}}

	f.uc = NewUseCase(
		store, store,
		settings.NewService(store, log),
		quota.NewService(store, clock, log),
		fakeDirectory{exists: true},
		f.notifier, f.metrics, store, log,
	)
	f.uc.timeProvider = clock
	return f
}

func (f *fixture) template(t *testing.T, bookingType domain.BookingType, start, end string, maxClients int) {
	t.Helper()
	_, err := f.store.CreateTemplate(context.Background(), &domain.AvailabilityTemplate{
		CoachID:              coachID,
		BookingType:          bookingType,
		DayOfWeek:            int(time.Monday),
		StartTime:            types.TimeString(start),
		EndTime:              types.TimeString(end),
		MaxConcurrentClients: maxClients,
	})
	require.NoError(t, err)
}

func (f *fixture) hybrid(client int64, limit int) {
	f.store.PutPlan(domain.ClientPlan{ClientID: client, CoachID: coachID, PlanType: domain.PlanHybrid, HybridMonthlyLimit: limit})
}

func (f *fixture) bookings(t *testing.T) []*domain.Booking {
	t.Helper()
	list, err := f.store.List(context.Background(), domain.BookingsFilter{CoachID: ptr.Ptr(coachID)})
	require.NoError(t, err)
	return list
}

func hour(day time.Time, h, m int, d time.Duration) domain.Slot {
	start := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return domain.Slot{StartsAt: start, EndsAt: start.Add(d)}
}

func session(h int) domain.Slot { return hour(monday, h, 0, time.Hour) }

func sessionRequest(client int64, slots ...domain.Slot) *Request {
	return &Request{ClientID: client, CoachID: coachID, BookingType: domain.BookingTypeSession, Slots: slots}
}

func rejectionOf(t *testing.T, err error) *domain.BookingRejection {
	t.Helper()
	var rejection *domain.BookingRejection
	require.True(t, errors.As(err, &rejection), "expected rejection, got %v", err)
	return rejection
}

func TestExecuteCreatesBatch(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	f.hybrid(clientID, 4)

	resp, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(11), session(9)))
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, session(9).StartsAt, resp.Bookings[0].StartsAt)
	assert.Equal(t, domain.QuotaSourceHybrid, resp.QuotaSource)
	assert.Equal(t, 2, resp.QuotaRemaining)
	for _, b := range resp.Bookings {
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		assert.Equal(t, domain.QuotaSourceHybrid, b.QuotaSource)
	}

	assert.Len(t, f.bookings(t), 2)
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingConfirmed, domain.EventBookingConfirmed}, f.notifier.types())
	assert.Equal(t, 2, f.metrics.created)
}

func TestExecuteQuotaTwoOfThree(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	f.hybrid(clientID, 3)

	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9)))
	require.NoError(t, err)

	// Осталось 2 из 3, запрошено 3 слота
	_, err = f.uc.Execute(context.Background(), &Request{
		ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeSession,
		Slots: []domain.Slot{session(10), session(11), hour(monday, 12, 0, time.Hour)},
	})

	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.Len(t, f.bookings(t), 1)

	balance, err := quota.NewService(f.store, fixedClock{now: now}, logger.NewNop()).
		Resolve(context.Background(), clientID, coachID, domain.BookingTypeSession, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, balance.Remaining)
}

func TestExecuteCapacityRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 1)
	f.hybrid(clientID, 4)
	f.hybrid(20, 4)

	_, err := f.uc.Execute(context.Background(), sessionRequest(20, session(9)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), sessionRequest(clientID, session(9), session(10)))

	rejection := rejectionOf(t, err)
	require.Len(t, rejection.Violations, 1)
	assert.ErrorIs(t, rejection.Violations[0].Reason, domain.ErrCapacityExceeded)
	assert.Equal(t, session(9).StartsAt, rejection.Violations[0].Slot.StartsAt)

	// 10:00 был свободен, но пакет не записан целиком
	assert.Len(t, f.bookings(t), 1)
	assert.Contains(t, f.metrics.rejected, "capacity_exceeded")
}

func TestExecuteCollectsEveryViolation(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	f.hybrid(clientID, 10)

	farMonday := monday.AddDate(0, 0, 7*15) // дальше 90 дней
	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID,
		hour(monday, 9, 30, time.Hour),      // не по сетке окна
		hour(monday, 11, 0, 30*time.Minute), // не та длительность
		hour(farMonday, 9, 0, time.Hour),
	))

	rejection := rejectionOf(t, err)
	assert.Len(t, rejection.Violations, 3)
	assert.ErrorIs(t, err, domain.ErrSlotNotOffered)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrWindowViolation)
	assert.Empty(t, f.bookings(t))
	assert.Empty(t, f.notifier.types())
}

func TestExecuteNotice(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "15:00", 2)
	f.hybrid(clientID, 4)
	// Понедельник 00:00: до 11:00 меньше 12 часов, до 12:00 ровно 12
	f.uc.timeProvider = fixedClock{now: monday}

	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(11)))
	assert.ErrorIs(t, err, domain.ErrNoticeViolation)

	_, err = f.uc.Execute(context.Background(), sessionRequest(clientID, session(12)))
	assert.NoError(t, err)
}

func TestExecuteOverlap(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 3)
	f.hybrid(clientID, 10)

	// Внутри пакета
	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9), session(9)))
	assert.ErrorIs(t, err, domain.ErrOverlapConflict)

	// С уже существующей записью клиента к другому тренеру
	_, err = f.store.Create(context.Background(), &domain.Booking{
		ClientID: clientID, CoachID: 5, BookingType: domain.BookingTypeSession,
		StartsAt: session(10).StartsAt.Add(30 * time.Minute), EndsAt: session(11).StartsAt.Add(30 * time.Minute),
		Status: domain.StatusConfirmed, QuotaSource: domain.QuotaSourceHybrid,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), sessionRequest(clientID, session(11)))
	assert.ErrorIs(t, err, domain.ErrOverlapConflict)
	assert.Empty(t, f.bookings(t))
}

func TestExecutePackageRenewalReminder(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	packageID := f.store.PutPackage(domain.SessionPackage{
		ClientID: clientID, CoachID: coachID, TotalSessions: 5, RemainingSessions: 3, SessionDurationMinutes: 60,
	})

	resp, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9)))
	require.NoError(t, err)

	assert.Equal(t, domain.QuotaSourcePackage, resp.QuotaSource)
	assert.Equal(t, 2, resp.QuotaRemaining)
	require.NotNil(t, resp.Bookings[0].PackageID)
	assert.Equal(t, packageID, *resp.Bookings[0].PackageID)

	// Порог по умолчанию 2
	events := f.notifier.types()
	assert.Equal(t, []domain.BookingEventType{domain.EventBookingConfirmed, domain.EventRenewalReminder}, events)
}

func TestExecutePackageSessionLength(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	packageID := f.store.PutPackage(domain.SessionPackage{
		ClientID: clientID, CoachID: coachID, TotalSessions: 5, RemainingSessions: 5, SessionDurationMinutes: 30,
	})

	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9)))

	rejection := rejectionOf(t, err)
	require.Len(t, rejection.Violations, 1)
	assert.ErrorIs(t, rejection.Violations[0].Reason, domain.ErrInvalidInput)
	assert.Empty(t, f.bookings(t))

	pkg, err := f.store.GetPackage(context.Background(), packageID)
	require.NoError(t, err)
	assert.Equal(t, 5, pkg.RemainingSessions)
}

func TestExecuteNoPackage(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)

	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9)))

	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
}

func TestExecuteUnknownPackage(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "12:00", 2)
	req := sessionRequest(clientID, session(9))
	req.PackageID = ptr.Ptr(int64(999))

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecuteCoachNotFound(t *testing.T) {
	f := newFixture(t)
	f.uc.coaches = fakeDirectory{exists: false}

	_, err := f.uc.Execute(context.Background(), sessionRequest(clientID, session(9)))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no slots", req: sessionRequest(clientID)},
		{name: "self booking", req: sessionRequest(coachID, session(9))},
		{name: "inverted slot", req: sessionRequest(clientID, domain.Slot{StartsAt: session(10).StartsAt, EndsAt: session(9).StartsAt})},
		{name: "unknown type", req: &Request{ClientID: clientID, CoachID: coachID, BookingType: "yoga", Slots: []domain.Slot{session(9)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFixture(t).uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestExecuteConcurrentLastSpot(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeCheckin, "09:00", "10:00", 1)

	const clients = 10
	slot := hour(monday, 9, 0, 30*time.Minute)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		capacity  int
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(client int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				ClientID: client, CoachID: coachID, BookingType: domain.BookingTypeCheckin, Slots: []domain.Slot{slot},
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrCapacityExceeded):
				capacity++
			}
		}(int64(100 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, clients-1, capacity)
	assert.Len(t, f.bookings(t), 1)
}

// stuckQueue отвечает только после release или по истечении ctx
type stuckQueue struct{ release chan struct{} }

func (q *stuckQueue) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	select {
	case <-q.release:
		return &asynq.TaskInfo{Type: task.Type()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestExecuteDoesNotWaitForNotificationQueue(t *testing.T) {
	f := newFixture(t)
	f.template(t, domain.BookingTypeSession, "09:00", "13:00", 1)
	f.hybrid(clientID, 4)

	queue := &stuckQueue{release: make(chan struct{})}
	n := notifier.New(queue, true, nil, logger.NewNop())
	f.uc.notifier = n

	start := time.Now()
	resp, err := f.uc.Execute(context.Background(),
		sessionRequest(clientID, session(9), session(10), session(11), session(12)))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 4)
	assert.Less(t, elapsed, 500*time.Millisecond)

	close(queue.release)
	require.NoError(t, n.Wait(context.Background()))
}
