package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

const enqueueTimeout = 3 * time.Second

// Notifier ставит задачи уведомлений после коммита транзакции
// Ошибки очереди логируются и никогда не возвращаются: бронирование уже зафиксировано
// Постановка идет в фоне, запрос ее не ждет
type Notifier struct {
	client       Enqueuer
	calendarSync bool
	metrics      Metrics
	logger       Logger

	pending sync.WaitGroup
}

// New создает Notifier. metrics может быть nil, client nil отключает уведомления
func New(client Enqueuer, calendarSync bool, metrics Metrics, logger Logger) *Notifier {
	return &Notifier{
		client:       client,
		calendarSync: calendarSync,
		metrics:      metrics,
		logger:       logger,
	}
}

// Notify ставит задачу уведомления и, если включено, синхронизации календаря
// Возвращается сразу: очередь обслуживается в отдельной горутине
func (n *Notifier) Notify(ctx context.Context, event domain.BookingEvent) {
	if n.client == nil {
		return
	}

	// Отмена запроса не должна терять уже зафиксированное событие
	ctx = context.WithoutCancel(ctx)
	payload := NewPayload(event, time.Now().UTC())
	withCalendar := n.calendarSync && event.AffectsCalendar()

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
		defer cancel()

		n.enqueue(ctx, TaskTypeFor(event.Type), payload)
		if withCalendar {
			n.enqueue(ctx, TypeCalendarSync, payload)
		}
	}()
}

// Wait дожидается фоновых постановок, но не дольше ctx
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) enqueue(ctx context.Context, taskType string, payload Payload) {
	task, opts, err := NewTask(taskType, payload)
	if err == nil {
		_, err = n.client.EnqueueContext(ctx, task, opts...)
	}

	if err != nil {
		n.logger.Error("Notify: failed to enqueue %s for booking id=%d: %v", taskType, payload.BookingID, err)
		if n.metrics != nil {
			n.metrics.NotificationFailed(taskType)
		}
		return
	}

	n.logger.Info("Notify: enqueued %s for booking id=%d", taskType, payload.BookingID)
}
