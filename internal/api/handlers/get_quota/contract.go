package get_quota

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota/models"
)

type QuotaService interface {
	GetQuota(ctx context.Context, req *models.GetQuotaRequest) (*models.QuotaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
