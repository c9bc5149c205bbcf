package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/scheduling"
)

// UseCase use case для получения доступных слотов тренера
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settings         SettingsResolver
	coaches          CoachDirectory
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settings SettingsResolver,
	coaches CoachDirectory,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settings:         settings,
		coaches:          coaches,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Ничего не кэширует: каждый вызов читает расписание и занятость заново
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, coach=%d, type=%s, date=%s, days=%d",
		req.UserID, req.CoachID, req.BookingType, req.Date.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем тренера (при недоступности UserService продолжаем)
	exists, err := uc.coaches.CoachExists(ctx, req.CoachID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: coach directory degraded for coach=%d: %v", req.CoachID, err)
	}
	if !exists {
		uc.logger.Warn("GetAvailableSlots: coach id=%d not found", req.CoachID)
		return nil, ErrCoachNotFound
	}

	var resp *Response

	// 4. Читаем расписание и занятость одним снимком
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 4.1. Настройки тренера (или значения по умолчанию)
		settings, isDefault, err := uc.settings.Resolve(txCtx, req.CoachID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to resolve settings: %v", err)
			return fmt.Errorf("%w: failed to resolve settings: %w", ErrInternal, err)
		}
		if isDefault {
			uc.logger.Info("GetAvailableSlots: using default settings for coach=%d", req.CoachID)
		}

		loc := settings.Location()
		policy := scheduling.NewPolicy(settings, now)

		durationMinutes := settings.DurationFor(req.BookingType)
		if req.DurationMinutes != nil {
			durationMinutes = *req.DurationMinutes
		}
		duration := time.Duration(durationMinutes) * time.Minute

		y, m, d := req.Date.Date()
		from := time.Date(y, m, d, 0, 0, 0, 0, loc)
		to := from.AddDate(0, 0, req.Days)
		lastDate := from.AddDate(0, 0, req.Days-1)

		// 4.2. Шаблоны и исключения на диапазон
		bookingType := req.BookingType
		templates, err := uc.availabilityRepo.ListTemplates(txCtx, domain.AvailabilityFilter{
			CoachID:     req.CoachID,
			BookingType: &bookingType,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get templates: %v", err)
			return fmt.Errorf("%w: failed to get templates: %w", ErrInternal, err)
		}

		overrides, err := uc.availabilityRepo.ListOverrides(txCtx, domain.AvailabilityFilter{
			CoachID:     req.CoachID,
			BookingType: &bookingType,
			From:        &from,
			To:          &lastDate,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get overrides: %v", err)
			return fmt.Errorf("%w: failed to get overrides: %w", ErrInternal, err)
		}

		// 4.3. Активные бронирования тренера любого типа и клиента
		bookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			CoachID: &req.CoachID,
			From:    &from,
			To:      &to,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 4.4. Слоты по дням
		slots := make([]domain.AvailableSlot, 0)
		for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
			windows := scheduling.ResolveWindows(day, loc, templates, overrides)
			slots = append(slots, scheduling.BuildAvailableSlots(windows, duration, bookings, policy)...)
		}

		resp = &Response{
			CoachID:         req.CoachID,
			BookingType:     req.BookingType,
			From:            from,
			Days:            req.Days,
			DurationMinutes: durationMinutes,
			TimeZone:        loc.String(),
			Slots:           slots,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for coach=%d", len(resp.Slots), req.CoachID)
	return resp, nil
}
