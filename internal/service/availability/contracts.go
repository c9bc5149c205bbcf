package availability

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// AvailabilityRepository интерфейс хранилища шаблонов и исключений
type AvailabilityRepository interface {
	CreateTemplate(ctx context.Context, t *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error)
	ListTemplates(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityTemplate, error)
	DeleteTemplate(ctx context.Context, coachID, id int64) error
	CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	ListOverrides(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, coachID, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
