package notifier

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer то, что умеет ставить задачи в очередь (*asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher доставляет событие во внешнюю систему (уведомления, календарь)
type Dispatcher interface {
	Dispatch(ctx context.Context, taskType string, payload Payload) error
}

// Metrics интерфейс для учета неудачных постановок в очередь
type Metrics interface {
	NotificationFailed(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
