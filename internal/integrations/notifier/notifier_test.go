package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
)

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakeMetrics struct {
	failed []string
}

func (m *fakeMetrics) NotificationFailed(event string) {
	m.failed = append(m.failed, event)
}

type fakeDispatcher struct {
	calls []string
	err   error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, taskType string, _ Payload) error {
	d.calls = append(d.calls, taskType)
	return d.err
}

func testEvent() domain.BookingEvent {
	return domain.NewBookingEvent(domain.EventBookingCancelled, &domain.Booking{ID: 7, ClientID: 2, CoachID: 1})
}

func TestNotifierEnqueuesBookingAndCalendarTasks(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := New(enq, true, nil, logger.NewNop())

	n.Notify(context.Background(), testEvent())
	require.NoError(t, n.Wait(context.Background()))

	require.Len(t, enq.tasks, 2)
	assert.Equal(t, TypeBookingCancelled, enq.tasks[0].Type())
	assert.Equal(t, TypeCalendarSync, enq.tasks[1].Type())

	p, err := ParsePayload(enq.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.BookingID)
	assert.Equal(t, "cancelled", p.Type)
	assert.NotEmpty(t, p.EventID)
}

func TestNotifierRenewalReminderSkipsCalendar(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := New(enq, true, nil, logger.NewNop())

	remaining := domain.SessionPackage{ID: 11, RemainingSessions: 1}
	n.Notify(context.Background(), domain.NewRenewalReminder(&domain.Booking{ID: 7, ClientID: 2, CoachID: 1}, &remaining))
	require.NoError(t, n.Wait(context.Background()))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeRenewalReminder, enq.tasks[0].Type())

	p, err := ParsePayload(enq.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.PackageID)
	assert.Equal(t, 1, p.RemainingSessions)
}

func TestNotifierDisabledWithoutQueue(t *testing.T) {
	m := &fakeMetrics{}
	n := New(nil, true, m, logger.NewNop())

	assert.NotPanics(t, func() { n.Notify(context.Background(), testEvent()) })
	require.NoError(t, n.Wait(context.Background()))
	assert.Empty(t, m.failed)
}

func TestNotifierSwallowsQueueErrors(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	m := &fakeMetrics{}
	n := New(enq, false, m, logger.NewNop())

	assert.NotPanics(t, func() { n.Notify(context.Background(), testEvent()) })
	require.NoError(t, n.Wait(context.Background()))
	assert.Equal(t, []string{TypeBookingCancelled}, m.failed)
}

func TestNotifierSurvivesCancelledRequestContext(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := New(enq, false, nil, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, testEvent())
	require.NoError(t, n.Wait(context.Background()))

	assert.Len(t, enq.tasks, 1)
}

// hangingEnqueuer держит вызов, пока очередь не "оживет" или не истечет ctx
type hangingEnqueuer struct {
	release chan struct{}
}

func (h *hangingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	select {
	case <-h.release:
		return &asynq.TaskInfo{Type: task.Type()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestNotifyDoesNotBlockOnStuckQueue(t *testing.T) {
	enq := &hangingEnqueuer{release: make(chan struct{})}
	n := New(enq, true, nil, logger.NewNop())

	start := time.Now()
	for i := 0; i < 4; i++ {
		n.Notify(context.Background(), testEvent())
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(enq.release)
	require.NoError(t, n.Wait(context.Background()))
}

func TestWaitIsBoundedByContext(t *testing.T) {
	enq := &hangingEnqueuer{release: make(chan struct{})}
	n := New(enq, false, nil, logger.NewNop())
	n.Notify(context.Background(), testEvent())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Wait(ctx), context.DeadlineExceeded)

	close(enq.release)
	require.NoError(t, n.Wait(context.Background()))
}

func TestWorkerDispatchesTasks(t *testing.T) {
	d := &fakeDispatcher{}
	mux := NewServeMux(d, logger.NewNop())

	task, _, err := NewTask(TypeBookingConfirmed, NewPayload(testEvent(), time.Now()))
	require.NoError(t, err)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{TypeBookingConfirmed}, d.calls)
}

func TestWorkerSkipsRetryOnBrokenPayload(t *testing.T) {
	mux := NewServeMux(&fakeDispatcher{}, logger.NewNop())

	err := mux.ProcessTask(context.Background(), asynq.NewTask(TypeBookingConfirmed, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestHTTPDispatcher(t *testing.T) {
	var gotEventID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEventID = r.Header.Get("X-Event-ID")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL, "", time.Second)
	p := NewPayload(testEvent(), time.Now())

	require.NoError(t, d.Dispatch(context.Background(), TypeBookingCancelled, p))
	assert.Equal(t, p.EventID, gotEventID)

	// Календарь не подключен
	assert.NoError(t, d.Dispatch(context.Background(), TypeCalendarSync, p))
}
