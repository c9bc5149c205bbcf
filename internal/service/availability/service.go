package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/availability/models"
)

// Service сервис управления доступностью тренера: еженедельные шаблоны и исключения по датам
// Изменять расписание может только сам тренер, читать - любой авторизованный пользователь
type Service struct {
	repo   AvailabilityRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(repo AvailabilityRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateTemplate создает еженедельный шаблон
func (s *Service) CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("CreateTemplate: coach=%d type=%s day=%d %s-%s by user=%d",
		req.CoachID, req.BookingType, req.DayOfWeek, req.StartTime, req.EndTime, req.UserID)

	if req.UserID != req.CoachID {
		s.logger.Warn("CreateTemplate: user=%d is not coach=%d", req.UserID, req.CoachID)
		return nil, ErrAccessDenied
	}

	bookingType := domain.BookingType(req.BookingType)
	if !bookingType.IsValid() {
		return nil, fmt.Errorf("%w: unknown bookingType %q", ErrInvalidInput, req.BookingType)
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}
	start, end, ok := models.ParseTimeRange(req.StartTime, req.EndTime)
	if !ok {
		return nil, fmt.Errorf("%w: startTime must be before endTime (HH:MM)", ErrInvalidInput)
	}
	if err := validateCapacity(req.MaxConcurrentClients); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTemplate(ctx, &domain.AvailabilityTemplate{
		CoachID:              req.CoachID,
		BookingType:          bookingType,
		DayOfWeek:            req.DayOfWeek,
		StartTime:            start,
		EndTime:              end,
		MaxConcurrentClients: req.MaxConcurrentClients,
	})
	if err != nil {
		s.logger.Error("CreateTemplate: repository error for coach=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: created template id=%d", created.ID)
	resp := models.FromDomainTemplate(created)
	return &resp, nil
}

// ListTemplates возвращает шаблоны тренера
func (s *Service) ListTemplates(ctx context.Context, req *models.ListRequest) (*models.TemplateListResponse, error) {
	filter, err := toFilter(req)
	if err != nil {
		return nil, err
	}

	templates, err := s.repo.ListTemplates(ctx, filter)
	if err != nil {
		s.logger.Error("ListTemplates: repository error for coach=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: ListTemplates - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// DeleteTemplate удаляет шаблон
// Уже подтвержденные бронирования остаются в силе
func (s *Service) DeleteTemplate(ctx context.Context, userID, coachID, id int64) error {
	s.logger.Info("DeleteTemplate: template id=%d coach=%d by user=%d", id, coachID, userID)

	if userID != coachID {
		s.logger.Warn("DeleteTemplate: user=%d is not coach=%d", userID, coachID)
		return ErrAccessDenied
	}

	if err := s.repo.DeleteTemplate(ctx, coachID, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrTemplateNotFound) {
			return ErrTemplateNotFound
		}
		s.logger.Error("DeleteTemplate: repository error for template id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteTemplate - repository error: %w", ErrInternal, err)
	}

	return nil
}

// CreateOverride создает исключение на дату
func (s *Service) CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("CreateOverride: coach=%d type=%s date=%s blocked=%t by user=%d",
		req.CoachID, req.BookingType, req.Date, req.IsBlocked, req.UserID)

	if req.UserID != req.CoachID {
		s.logger.Warn("CreateOverride: user=%d is not coach=%d", req.UserID, req.CoachID)
		return nil, ErrAccessDenied
	}

	override, err := buildOverride(req)
	if err != nil {
		s.logger.Warn("CreateOverride: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.CreateOverride(ctx, override)
	if err != nil {
		s.logger.Error("CreateOverride: repository error for coach=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: created override id=%d", created.ID)
	resp := models.FromDomainOverride(created)
	return &resp, nil
}

// ListOverrides возвращает исключения тренера в диапазоне дат
func (s *Service) ListOverrides(ctx context.Context, req *models.ListRequest) (*models.OverrideListResponse, error) {
	filter, err := toFilter(req)
	if err != nil {
		return nil, err
	}

	overrides, err := s.repo.ListOverrides(ctx, filter)
	if err != nil {
		s.logger.Error("ListOverrides: repository error for coach=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainOverrideList(overrides), nil
}

// DeleteOverride удаляет исключение
func (s *Service) DeleteOverride(ctx context.Context, userID, coachID, id int64) error {
	s.logger.Info("DeleteOverride: override id=%d coach=%d by user=%d", id, coachID, userID)

	if userID != coachID {
		s.logger.Warn("DeleteOverride: user=%d is not coach=%d", userID, coachID)
		return ErrAccessDenied
	}

	if err := s.repo.DeleteOverride(ctx, coachID, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrOverrideNotFound) {
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %w", ErrInternal, err)
	}

	return nil
}

func buildOverride(req *models.CreateOverrideRequest) (*domain.AvailabilityOverride, error) {
	bookingType := domain.BookingType(req.BookingType)
	if !bookingType.IsValid() {
		return nil, fmt.Errorf("%w: unknown bookingType %q", ErrInvalidInput, req.BookingType)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	override := &domain.AvailabilityOverride{
		CoachID:     req.CoachID,
		BookingType: bookingType,
		Date:        date,
		IsBlocked:   req.IsBlocked,
	}

	// Время задается парой или не задается вовсе
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return nil, fmt.Errorf("%w: startTime and endTime must be set together", ErrInvalidInput)
	}
	if req.StartTime != nil {
		start, end, ok := models.ParseTimeRange(*req.StartTime, *req.EndTime)
		if !ok {
			return nil, fmt.Errorf("%w: startTime must be before endTime (HH:MM)", ErrInvalidInput)
		}
		override.StartTime, override.EndTime = &start, &end
	}

	if req.IsBlocked {
		if req.MaxConcurrentClients != nil {
			return nil, fmt.Errorf("%w: blocked override has no capacity", ErrInvalidInput)
		}
		return override, nil
	}

	if req.MaxConcurrentClients == nil {
		return nil, fmt.Errorf("%w: maxConcurrentClients is required when not blocked", ErrInvalidInput)
	}
	if err := validateCapacity(*req.MaxConcurrentClients); err != nil {
		return nil, err
	}
	override.MaxConcurrentClients = req.MaxConcurrentClients

	return override, nil
}

func validateCapacity(n int) error {
	if n < domain.MinConcurrentClients || n > domain.MaxConcurrentClients {
		return fmt.Errorf("%w: maxConcurrentClients must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentClients, domain.MaxConcurrentClients)
	}
	return nil
}

func toFilter(req *models.ListRequest) (domain.AvailabilityFilter, error) {
	filter := domain.AvailabilityFilter{
		CoachID: req.CoachID,
		From:    req.From,
		To:      req.To,
	}
	if req.BookingType != nil {
		bookingType := domain.BookingType(*req.BookingType)
		if !bookingType.IsValid() {
			return filter, fmt.Errorf("%w: unknown bookingType %q", ErrInvalidInput, *req.BookingType)
		}
		filter.BookingType = &bookingType
	}
	return filter, nil
}
