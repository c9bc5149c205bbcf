package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/ptr"
)

const (
	coachID  int64 = 1
	clientID int64 = 2
)

func seed(t *testing.T, store *memory.Store) (*domain.Booking, *domain.Booking) {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	active, err := store.Create(ctx, &domain.Booking{
		ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeSession,
		StartsAt: start, EndsAt: start.Add(time.Hour), Status: domain.StatusConfirmed,
		QuotaSource: domain.QuotaSourceHybrid,
	})
	require.NoError(t, err)

	cancelled, err := store.Create(ctx, &domain.Booking{
		ClientID: clientID, CoachID: coachID, BookingType: domain.BookingTypeCheckin,
		StartsAt: start.Add(2 * time.Hour), EndsAt: start.Add(150 * time.Minute), Status: domain.StatusConfirmed,
		QuotaSource: domain.QuotaSourceCheckin,
	})
	require.NoError(t, err)
	require.NoError(t, store.Cancel(ctx, cancelled.ID, domain.ActorCoach, nil, start))

	return active, cancelled
}

func TestGetByID(t *testing.T) {
	store := memory.NewStore()
	active, _ := seed(t, store)
	svc := NewService(store, logger.NewNop())
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, active.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, "session", resp.BookingType)
	assert.Equal(t, "hybrid", resp.QuotaSource)

	_, err = svc.GetByID(ctx, active.ID, coachID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, active.ID, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 12345, clientID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	svc := NewService(store, logger.NewNop())
	ctx := context.Background()

	resp, err := svc.List(ctx, &models.ListBookingsRequest{UserID: clientID, ClientID: ptr.Ptr(clientID)})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = svc.List(ctx, &models.ListBookingsRequest{UserID: coachID, CoachID: ptr.Ptr(coachID), IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, "coach", *resp.Bookings[1].CancelledBy)

	_, err = svc.List(ctx, &models.ListBookingsRequest{UserID: clientID, CoachID: ptr.Ptr(coachID)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.List(ctx, &models.ListBookingsRequest{UserID: clientID, ClientID: ptr.Ptr(clientID), BookingType: ptr.Ptr("yoga")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
