package create_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	LockCoach(ctx context.Context, coachID int64) error
	LockClient(ctx context.Context, clientID int64) error
}

// AvailabilityRepository интерфейс репозитория шаблонов и исключений
type AvailabilityRepository interface {
	ListTemplates(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityTemplate, error)
	ListOverrides(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityOverride, error)
}

// SettingsResolver возвращает действующие настройки тренера
type SettingsResolver interface {
	Resolve(ctx context.Context, coachID int64) (*domain.CoachBookingSettings, bool, error)
}

// QuotaService вычисляет и списывает квоту клиента
type QuotaService interface {
	Resolve(ctx context.Context, clientID, coachID int64, bookingType domain.BookingType, packageID *int64) (*domain.QuotaBalance, error)
	Consume(ctx context.Context, balance *domain.QuotaBalance, n int) error
}

// CoachDirectory проверяет существование тренера (UserService)
type CoachDirectory interface {
	CoachExists(ctx context.Context, coachID int64) (bool, error)
}

// Notifier ставит уведомления после коммита
type Notifier interface {
	Notify(ctx context.Context, event domain.BookingEvent)
}

// Metrics счетчики исходов бронирования
type Metrics interface {
	BookingCreated(bookingType string, count int)
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
