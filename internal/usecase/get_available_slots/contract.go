package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
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

// CoachDirectory проверяет существование тренера (UserService)
type CoachDirectory interface {
	CoachExists(ctx context.Context, coachID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
