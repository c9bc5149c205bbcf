package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
)

const (
	coachID  int64 = 1
	clientID int64 = 2
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store, fixedClock{now: now}, logger.NewNop()), store
}

func TestResolveCheckinIsBinary(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeCheckin, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotaSourceCheckin, balance.Source)
	assert.Equal(t, 1, balance.Remaining)

	require.NoError(t, svc.Consume(ctx, balance, 1))

	balance, err = svc.Resolve(ctx, clientID, coachID, domain.BookingTypeCheckin, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Remaining)

	counter, err := store.GetCounter(ctx, clientID, domain.UsageCheckin, domain.PeriodStart(now))
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Used)
}

func TestResolveHybridUsesMonthlyLimit(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	store.PutPlan(domain.ClientPlan{ClientID: clientID, CoachID: coachID, PlanType: domain.PlanHybrid, HybridMonthlyLimit: 4})

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotaSourceHybrid, balance.Source)
	assert.Equal(t, 4, balance.Remaining)

	require.NoError(t, svc.Consume(ctx, balance, 3))

	balance, err = svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.Remaining)
	assert.ErrorIs(t, svc.Consume(ctx, balance, 2), domain.ErrQuotaExhausted)
}

func TestResolvePackagePicksSoonestExpiring(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	store.PutPackage(domain.SessionPackage{ClientID: clientID, CoachID: coachID, TotalSessions: 10, RemainingSessions: 10})
	soon := store.PutPackage(domain.SessionPackage{
		ClientID: clientID, CoachID: coachID, TotalSessions: 5, RemainingSessions: 2,
		ExpiresAt: ptr.Ptr(now.AddDate(0, 0, 7)),
	})
	store.PutPackage(domain.SessionPackage{
		ClientID: clientID, CoachID: coachID, TotalSessions: 5, RemainingSessions: 5,
		ExpiresAt: ptr.Ptr(now.AddDate(0, 0, -1)),
	})

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.QuotaSourcePackage, balance.Source)
	require.NotNil(t, balance.Package)
	assert.Equal(t, soon, balance.Package.ID)
	assert.Equal(t, 2, balance.Remaining)
}

func TestResolveExplicitPackage(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	expired := store.PutPackage(domain.SessionPackage{
		ClientID: clientID, CoachID: coachID, TotalSessions: 5, RemainingSessions: 3,
		ExpiresAt: ptr.Ptr(now.Add(-time.Hour)),
	})
	foreign := store.PutPackage(domain.SessionPackage{ClientID: 99, CoachID: coachID, TotalSessions: 5, RemainingSessions: 5})

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, &expired)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Remaining, "expired package gives no new bookings")

	_, err = svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, &foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := int64(404)
	_, err = svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, &missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveWithoutPackageIsZero(t *testing.T) {
	svc, _ := newTestService()

	balance, err := svc.Resolve(context.Background(), clientID, coachID, domain.BookingTypeSession, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, balance.Remaining)
	assert.ErrorIs(t, svc.Consume(context.Background(), balance, 1), domain.ErrQuotaExhausted)
}

func TestRefundRestoresExactSource(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	pkgID := store.PutPackage(domain.SessionPackage{ClientID: clientID, CoachID: coachID, TotalSessions: 3, RemainingSessions: 3})

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeSession, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Consume(ctx, balance, 2))

	booking := &domain.Booking{ID: 1, ClientID: clientID, QuotaSource: domain.QuotaSourcePackage, PackageID: &pkgID, CreatedAt: now}
	require.NoError(t, svc.Refund(ctx, booking))

	pkg, err := store.GetPackage(ctx, pkgID)
	require.NoError(t, err)
	assert.Equal(t, 2, pkg.RemainingSessions)

	// Возврат сверх total игнорируется
	require.NoError(t, svc.Refund(ctx, booking))
	require.NoError(t, svc.Refund(ctx, booking))
	pkg, err = store.GetPackage(ctx, pkgID)
	require.NoError(t, err)
	assert.Equal(t, 3, pkg.RemainingSessions)
}

func TestRefundCounterUsesBookingPeriod(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	balance, err := svc.Resolve(ctx, clientID, coachID, domain.BookingTypeCheckin, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Consume(ctx, balance, 1))

	// Бронирование прошлого месяца: счетчика за тот период нет, текущий не трогаем
	old := &domain.Booking{ID: 1, ClientID: clientID, QuotaSource: domain.QuotaSourceCheckin, CreatedAt: now.AddDate(0, -1, 0)}
	require.NoError(t, svc.Refund(ctx, old))

	counter, err := store.GetCounter(ctx, clientID, domain.UsageCheckin, domain.PeriodStart(now))
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Used)

	current := &domain.Booking{ID: 2, ClientID: clientID, QuotaSource: domain.QuotaSourceCheckin, CreatedAt: now}
	require.NoError(t, svc.Refund(ctx, current))

	counter, err = store.GetCounter(ctx, clientID, domain.UsageCheckin, domain.PeriodStart(now))
	require.NoError(t, err)
	assert.Equal(t, 0, counter.Used)
}

func TestGetQuotaAccess(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetQuota(ctx, &models.GetQuotaRequest{UserID: 50, ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeCheckin})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetQuota(ctx, &models.GetQuotaRequest{UserID: coachID, ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeCheckin})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Remaining)
	assert.Equal(t, "checkin", resp.Source)

	_, err = svc.GetQuota(ctx, &models.GetQuotaRequest{UserID: clientID, ClientID: clientID, CoachID: coachID, BookingType: "yoga"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
