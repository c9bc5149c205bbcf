package quota

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// QuotaRepository интерфейс хранилища источников квоты
type QuotaRepository interface {
	GetPlan(ctx context.Context, clientID, coachID int64) (*domain.ClientPlan, error)
	GetPackage(ctx context.Context, id int64) (*domain.SessionPackage, error)
	ListUsablePackages(ctx context.Context, clientID, coachID int64, now time.Time) ([]*domain.SessionPackage, error)
	AdjustPackage(ctx context.Context, id int64, delta int) error
	GetCounter(ctx context.Context, clientID int64, kind domain.UsageKind, periodStart time.Time) (*domain.UsageCounter, error)
	AdjustCounter(ctx context.Context, counter *domain.UsageCounter, delta int) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
