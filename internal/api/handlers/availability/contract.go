package availability

import (
	"context"

	"github.com/m04kA/SMC-CoachBookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error)
	ListTemplates(ctx context.Context, req *models.ListRequest) (*models.TemplateListResponse, error)
	DeleteTemplate(ctx context.Context, userID, coachID, id int64) error
	CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.OverrideResponse, error)
	ListOverrides(ctx context.Context, req *models.ListRequest) (*models.OverrideListResponse, error)
	DeleteOverride(ctx context.Context, userID, coachID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
