package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/settings/models"
)

// Service сервис настроек бронирования тренера
type Service struct {
	repo     SettingsRepository
	defaults domain.CoachBookingSettings
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, logger Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: *domain.DefaultSettings(0),
		logger:   logger,
	}
}

// WithDefaults задает значения для тренеров без собственных настроек (из конфига)
func (s *Service) WithDefaults(defaults domain.CoachBookingSettings) *Service {
	s.defaults = defaults
	return s
}

// Resolve возвращает действующие настройки тренера
// Если тренер ничего не настраивал, используются значения по умолчанию
// Внутри транзакции вызывается тем же executor'ом, что и остальные чтения
func (s *Service) Resolve(ctx context.Context, coachID int64) (*domain.CoachBookingSettings, bool, error) {
	settings, err := s.repo.GetByCoachID(ctx, coachID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			defaults := s.defaults
			defaults.CoachID = coachID
			return &defaults, true, nil
		}
		return nil, false, fmt.Errorf("%w: Resolve - repository error: %w", ErrInternal, err)
	}
	return settings, false, nil
}

// Get получает настройки тренера (публичный метод)
func (s *Service) Get(ctx context.Context, coachID int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching settings for coach=%d", coachID)

	settings, isDefault, err := s.Resolve(ctx, coachID)
	if err != nil {
		s.logger.Error("Get: failed to resolve settings for coach=%d: %v", coachID, err)
		return nil, err
	}

	if isDefault {
		s.logger.Info("Get: settings not found for coach=%d, using defaults", coachID)
	}

	return models.FromDomainSettings(settings, isDefault), nil
}

// Update обновляет настройки тренера
// Доступно только самому тренеру
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings for coach=%d by user=%d", req.CoachID, req.UserID)

	// 1. Проверяем права доступа
	if req.UserID != req.CoachID {
		s.logger.Warn("Update: user=%d is not coach=%d", req.UserID, req.CoachID)
		return nil, ErrAccessDenied
	}

	// 2. Получаем текущие настройки (или значения по умолчанию)
	settings, _, err := s.Resolve(ctx, req.CoachID)
	if err != nil {
		s.logger.Error("Update: failed to resolve settings for coach=%d: %v", req.CoachID, err)
		return nil, err
	}

	// 3. Применяем изменения и валидируем результат
	req.ApplyTo(settings)
	if err := Validate(settings); err != nil {
		s.logger.Warn("Update: validation failed for coach=%d: %v", req.CoachID, err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error for coach=%d: %v", req.CoachID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings for coach=%d", req.CoachID)
	return models.FromDomainSettings(saved, false), nil
}

// Validate проверяет настройки на допустимые значения
func Validate(s *domain.CoachBookingSettings) error {
	if s.BookingWindowDays < domain.MinBookingWindowDays || s.BookingWindowDays > domain.MaxBookingWindowDays {
		return fmt.Errorf("%w: bookingWindowDays must be between %d and %d",
			ErrInvalidInput, domain.MinBookingWindowDays, domain.MaxBookingWindowDays)
	}

	if s.MinNoticeHours < domain.MinNoticeHours || s.MinNoticeHours > domain.MaxNoticeHours {
		return fmt.Errorf("%w: minNoticeHours must be between %d and %d",
			ErrInvalidInput, domain.MinNoticeHours, domain.MaxNoticeHours)
	}

	if s.RenewalReminderThreshold < 0 {
		return fmt.Errorf("%w: renewalReminderThreshold must not be negative", ErrInvalidInput)
	}

	for name, d := range map[string]int{
		"sessionDurationMinutes": s.SessionDurationMinutes,
		"checkinDurationMinutes": s.CheckinDurationMinutes,
	} {
		if d < domain.MinDurationMinutes || d > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: %s must be between %d and %d",
				ErrInvalidInput, name, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}

	if _, err := time.LoadLocation(s.TimeZone); err != nil || s.TimeZone == "" {
		return fmt.Errorf("%w: unknown timeZone %q", ErrInvalidInput, s.TimeZone)
	}

	return nil
}
