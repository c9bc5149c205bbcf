package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, by domain.Actor, reason *string, at time.Time) error
	LockCoach(ctx context.Context, coachID int64) error
	LockClient(ctx context.Context, clientID int64) error
}

// SettingsResolver возвращает действующие настройки тренера
type SettingsResolver interface {
	Resolve(ctx context.Context, coachID int64) (*domain.CoachBookingSettings, bool, error)
}

// QuotaRefunder возвращает квоту отмененного бронирования
type QuotaRefunder interface {
	Refund(ctx context.Context, booking *domain.Booking) error
}

// Notifier ставит уведомления после коммита
type Notifier interface {
	Notify(ctx context.Context, event domain.BookingEvent)
}

// Metrics счетчики исходов отмены
type Metrics interface {
	BookingCancelled(actor string)
	BookingRejected(operation, reason string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
