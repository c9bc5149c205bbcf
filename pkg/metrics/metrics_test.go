package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingCounters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.BookingCreated("session", 3)
	m.BookingRejected("create", "capacity_exceeded")
	m.BookingRejected("create", "capacity_exceeded")
	m.BookingCancelled("coach")
	m.BookingRescheduled()
	m.NotificationFailed("booking:confirmed")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("session")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingRejections.WithLabelValues("create", "capacity_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCancelled.WithLabelValues("coach")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsRescheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("booking:confirmed")))
}

func TestObserveQueryCountsErrors(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.ObserveQuery("select", time.Millisecond, nil)
	m.ObserveQuery("insert", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("insert")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", "200", time.Millisecond)
		m.ObserveQuery("select", time.Millisecond, nil)
		m.BookingCreated("session", 1)
		m.BookingRejected("create", "quota_exhausted")
		m.BookingCancelled("client")
		m.BookingRescheduled()
		m.NotificationFailed("calendar:sync")
	})
}
