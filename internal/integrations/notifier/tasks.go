package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Типы задач
const (
	TypeBookingConfirmed   = "booking:confirmed"
	TypeBookingCancelled   = "booking:cancelled"
	TypeBookingRescheduled = "booking:rescheduled"
	TypeCalendarSync       = "calendar:sync"
	TypeRenewalReminder    = "package:renewal_reminder"
)

// QueueNotifications очередь задач уведомлений
const QueueNotifications = "notifications"

const defaultMaxRetry = 5

// Payload тело задачи
type Payload struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	BookingID  int64     `json:"bookingId"`
	ClientID   int64     `json:"clientId"`
	CoachID    int64     `json:"coachId"`
	OccurredAt time.Time `json:"occurredAt"`

	PackageID         int64 `json:"packageId,omitempty"`
	RemainingSessions int   `json:"remainingSessions,omitempty"`
}

// TaskTypeFor возвращает тип задачи уведомления для события
func TaskTypeFor(t domain.BookingEventType) string {
	switch t {
	case domain.EventBookingCancelled:
		return TypeBookingCancelled
	case domain.EventBookingRescheduled:
		return TypeBookingRescheduled
	case domain.EventRenewalReminder:
		return TypeRenewalReminder
	default:
		return TypeBookingConfirmed
	}
}

// NewPayload собирает payload события
func NewPayload(event domain.BookingEvent, occurredAt time.Time) Payload {
	return Payload{
		EventID:    uuid.NewString(),
		Type:       string(event.Type),
		BookingID:  event.BookingID,
		ClientID:   event.ClientID,
		CoachID:    event.CoachID,
		OccurredAt: occurredAt,

		PackageID:         event.PackageID,
		RemainingSessions: event.RemainingSessions,
	}
}

// NewTask собирает задачу; TaskID делает повторную постановку того же события идемпотентной
func NewTask(taskType string, payload Payload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBuildTask, err)
	}

	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.TaskID(taskType + ":" + payload.EventID),
		asynq.MaxRetry(defaultMaxRetry),
	}

	return task, opts, nil
}

// ParsePayload разбирает payload задачи
func ParsePayload(task *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}
