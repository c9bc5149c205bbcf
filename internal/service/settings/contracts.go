package settings

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetByCoachID(ctx context.Context, coachID int64) (*domain.CoachBookingSettings, error)
	Upsert(ctx context.Context, s *domain.CoachBookingSettings) (*domain.CoachBookingSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
