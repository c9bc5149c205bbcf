package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

func TestRespondRejection(t *testing.T) {
	slot := domain.Slot{
		StartsAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	t.Run("conflict wins over policy violations", func(t *testing.T) {
		rejection := &domain.BookingRejection{}
		rejection.Add(&slot, domain.ErrNoticeViolation)
		rejection.Add(nil, domain.ErrQuotaExhausted)

		rec := httptest.NewRecorder()
		RespondRejection(rec, "отказ", rejection)

		require.Equal(t, http.StatusConflict, rec.Code)

		var body RejectionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body.Violations, 2)
		assert.Equal(t, "notice_violation", body.Violations[0].Kind)
		require.NotNil(t, body.Violations[0].Slot)
		assert.Equal(t, "2025-03-10T09:00:00Z", body.Violations[0].Slot.StartsAt)
		assert.Equal(t, "quota_exhausted", body.Violations[1].Kind)
		assert.Nil(t, body.Violations[1].Slot)
	})

	t.Run("policy only is unprocessable", func(t *testing.T) {
		rejection := &domain.BookingRejection{}
		rejection.Add(&slot, domain.ErrSlotNotOffered)

		rec := httptest.NewRecorder()
		RespondRejection(rec, "отказ", rejection)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrCapacityExceeded, http.StatusConflict},
		{domain.ErrOverlapConflict, http.StatusConflict},
		{domain.ErrQuotaExhausted, http.StatusConflict},
		{domain.ErrNoticeViolation, http.StatusUnprocessableEntity},
		{domain.ErrWindowViolation, http.StatusUnprocessableEntity},
		{domain.ErrSlotNotOffered, http.StatusUnprocessableEntity},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(domain.Kind(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestSlotDTOToDomain(t *testing.T) {
	slot, err := SlotDTO{StartsAt: "2025-03-10T09:00:00+03:00", EndsAt: "2025-03-10T10:00:00+03:00"}.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, slot.Duration())

	_, err = SlotDTO{StartsAt: "tomorrow", EndsAt: "2025-03-10T10:00:00Z"}.ToDomain()
	assert.Error(t, err)
}
