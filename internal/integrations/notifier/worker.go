package notifier

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
)

// NewServeMux регистрирует обработчики всех задач уведомлений
func NewServeMux(dispatcher Dispatcher, logger Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()

	h := handleTask(dispatcher, logger)
	mux.HandleFunc(TypeBookingConfirmed, h)
	mux.HandleFunc(TypeBookingCancelled, h)
	mux.HandleFunc(TypeBookingRescheduled, h)
	mux.HandleFunc(TypeCalendarSync, h)
	mux.HandleFunc(TypeRenewalReminder, h)

	return mux
}

func handleTask(dispatcher Dispatcher, logger Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := ParsePayload(task)
		if err != nil {
			logger.Error("Worker: invalid payload for %s: %v", task.Type(), err)
			// Битый payload не починится повтором
			return errors.Join(err, asynq.SkipRetry)
		}

		if err := dispatcher.Dispatch(ctx, task.Type(), p); err != nil {
			logger.Warn("Worker: %s for booking id=%d failed: %v", task.Type(), p.BookingID, err)
			return err
		}

		logger.Info("Worker: %s delivered for booking id=%d", task.Type(), p.BookingID)
		return nil
	}
}
