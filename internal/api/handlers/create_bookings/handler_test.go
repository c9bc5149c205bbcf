package create_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	createBookings "github.com/m04kA/SMC-CoachBookingService/internal/usecase/create_bookings"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *createBookings.Request
	resp *createBookings.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBookings.Request) (*createBookings.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{"coachId":2,"bookingType":"session","slots":[` +
	`{"startsAt":"2025-03-10T09:00:00Z","endsAt":"2025-03-10T10:00:00Z"},` +
	`{"startsAt":"2025-03-10T10:00:00Z","endsAt":"2025-03-10T11:00:00Z"}]}`

func serve(t *testing.T, uc *fakeUseCase, userID string, payload string) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(payload))
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreated(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBookings.Response{
		Bookings: []*domain.Booking{
			{ID: 1, ClientID: 1, CoachID: 2, BookingType: domain.BookingTypeSession, StartsAt: start, EndsAt: start.Add(time.Hour)},
			{ID: 2, ClientID: 1, CoachID: 2, BookingType: domain.BookingTypeSession, StartsAt: start.Add(time.Hour), EndsAt: start.Add(2 * time.Hour)},
		},
		QuotaSource:    domain.QuotaSourceHybrid,
		QuotaRemaining: 3,
	}}

	rec := serve(t, uc, "1", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.ClientID)
	assert.Equal(t, int64(2), uc.got.CoachID)
	require.Len(t, uc.got.Slots, 2)
	assert.True(t, uc.got.Slots[0].StartsAt.Equal(start))

	var resp CreateBookingsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Bookings, 2)
	assert.Equal(t, 3, resp.QuotaRemaining)
}

func TestHandleRejection(t *testing.T) {
	slot := domain.Slot{
		StartsAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
	}
	rejection := &domain.BookingRejection{}
	rejection.Add(&slot, domain.ErrCapacityExceeded)

	rec := serve(t, &fakeUseCase{err: rejection}, "1", body)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp handlers.RejectionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "capacity_exceeded", resp.Violations[0].Kind)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		payload    string
		err        error
		wantStatus int
	}{
		{name: "no user", payload: body, wantStatus: http.StatusUnauthorized},
		{name: "bad json", userID: "1", payload: `{"coachId":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", userID: "1", payload: `{"coach":2}`, wantStatus: http.StatusBadRequest},
		{name: "bad slot time", userID: "1", payload: `{"coachId":2,"slots":[{"startsAt":"10:00","endsAt":"11:00"}]}`, wantStatus: http.StatusBadRequest},
		{name: "invalid input", userID: "1", payload: body, err: createBookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "coach not found", userID: "1", payload: body, err: createBookings.ErrCoachNotFound, wantStatus: http.StatusNotFound},
		{name: "package not found", userID: "1", payload: body, err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", userID: "1", payload: body, err: createBookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, tt.userID, tt.payload)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
