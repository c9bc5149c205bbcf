package create_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/scheduling"
)

const operation = "create"

// UseCase use case для создания пакета бронирований
// Пакет фиксируется целиком или не фиксируется вовсе
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settings         SettingsResolver
	quota            QuotaService
	coaches          CoachDirectory
	notifier         Notifier
	metrics          Metrics
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	settings SettingsResolver,
	quota QuotaService,
	coaches CoachDirectory,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settings:         settings,
		quota:            quota,
		coaches:          coaches,
		notifier:         notifier,
		metrics:          metrics,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирований
// Вся проверка и запись идут в сериализуемой транзакции под блокировками тренера и клиента;
// при любом нарушении возвращается *domain.BookingRejection со всеми найденными нарушениями
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBookings: client=%d, coach=%d, type=%s, slots=%d",
		req.ClientID, req.CoachID, req.BookingType, len(req.Slots))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBookings: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем тренера (при недоступности UserService продолжаем)
	exists, err := uc.coaches.CoachExists(ctx, req.CoachID)
	if err != nil {
		uc.logger.Warn("CreateBookings: coach directory degraded for coach=%d: %v", req.CoachID, err)
	}
	if !exists {
		uc.logger.Warn("CreateBookings: coach id=%d not found", req.CoachID)
		return nil, ErrCoachNotFound
	}

	slots := sortedSlots(req.Slots)

	var (
		created  []*domain.Booking
		balance  *domain.QuotaBalance
		settings *domain.CoachBookingSettings
	)

	// 4. Выполняем проверки и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = nil

		// 4.1. Сериализуем коммиты одного тренера и одного клиента
		if err := uc.bookingRepo.LockCoach(txCtx, req.CoachID); err != nil {
			return fmt.Errorf("%w: failed to lock coach: %w", ErrInternal, err)
		}
		if err := uc.bookingRepo.LockClient(txCtx, req.ClientID); err != nil {
			return fmt.Errorf("%w: failed to lock client: %w", ErrInternal, err)
		}

		// 4.2. Настройки тренера
		var err error
		settings, _, err = uc.settings.Resolve(txCtx, req.CoachID)
		if err != nil {
			uc.logger.Error("CreateBookings: failed to resolve settings: %v", err)
			return fmt.Errorf("%w: failed to resolve settings: %w", ErrInternal, err)
		}
		policy := scheduling.NewPolicy(settings, now)
		loc := settings.Location()
		duration := policy.Duration(req.BookingType)

		// 4.3. Актуальная занятость тренера и собственные бронирования клиента
		window := span(slots)
		coachBookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			CoachID: &req.CoachID,
			From:    &window.StartsAt,
			To:      &window.EndsAt,
		})
		if err != nil {
			uc.logger.Error("CreateBookings: failed to get coach bookings: %v", err)
			return fmt.Errorf("%w: failed to get coach bookings: %w", ErrInternal, err)
		}

		clientBookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ClientID: &req.ClientID,
			From:     &window.StartsAt,
			To:       &window.EndsAt,
		})
		if err != nil {
			uc.logger.Error("CreateBookings: failed to get client bookings: %v", err)
			return fmt.Errorf("%w: failed to get client bookings: %w", ErrInternal, err)
		}

		// 4.4. Окна доступности на все затронутые даты
		windows, err := uc.loadWindows(txCtx, req, slots, loc)
		if err != nil {
			return err
		}

		// 4.5. Проверяем каждый слот, собирая все нарушения
		rejection := &domain.BookingRejection{}
		var batchEnd time.Time
		for i := range slots {
			slot := slots[i]

			// Слоты отсортированы: пересечение внутри пакета видно по концу предыдущих
			overlapsBatch := i > 0 && slot.StartsAt.Before(batchEnd)
			if slot.EndsAt.After(batchEnd) {
				batchEnd = slot.EndsAt
			}

			if overlapsBatch || overlapsAny(slot, clientBookings) {
				rejection.Add(&slot, domain.ErrOverlapConflict)
			}

			if err := policy.CheckDuration(slot, req.BookingType); err != nil {
				rejection.Add(&slot, err)
				continue
			}
			if err := policy.CheckBookable(slot); err != nil {
				rejection.Add(&slot, err)
			}

			dayWindows := windows[scheduling.LocalDate(slot.StartsAt, loc).Format(domain.DateFormat)]
			if err := scheduling.CheckCapacity(dayWindows, slot, duration, coachBookings); err != nil {
				rejection.Add(&slot, err)
			}
		}

		// 4.6. Квота на весь пакет
		balance, err = uc.quota.Resolve(txCtx, req.ClientID, req.CoachID, req.BookingType, req.PackageID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("CreateBookings: package not found for client=%d: %v", req.ClientID, err)
				return err
			}
			uc.logger.Error("CreateBookings: failed to resolve quota: %v", err)
			return fmt.Errorf("%w: failed to resolve quota: %w", ErrInternal, err)
		}
		if len(slots) > balance.Remaining {
			rejection.Add(nil, domain.ErrQuotaExhausted)
		}

		// 4.6.1. Пакет продан сессиями фиксированной длины
		if balance.Package != nil {
			for i := range slots {
				if !balance.Package.Fits(slots[i]) {
					rejection.Add(&slots[i], fmt.Errorf("%w: package id=%d sells %d-minute sessions",
						domain.ErrInvalidInput, balance.Package.ID, balance.Package.SessionDurationMinutes))
				}
			}
		}

		if rejection.HasViolations() {
			return rejection
		}

		// 4.7. Сохраняем бронирования
		for _, slot := range slots {
			booking := &domain.Booking{
				ClientID:    req.ClientID,
				CoachID:     req.CoachID,
				BookingType: req.BookingType,
				StartsAt:    slot.StartsAt,
				EndsAt:      slot.EndsAt,
				Status:      domain.StatusConfirmed,
				QuotaSource: balance.Source,
				CreatedAt:   now,
			}
			if balance.Package != nil {
				booking.PackageID = &balance.Package.ID
			}

			saved, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateBookings: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}
			created = append(created, saved)
		}

		// 4.8. Списываем квоту
		if err := uc.quota.Consume(txCtx, balance, len(created)); err != nil {
			if errors.Is(err, domain.ErrQuotaExhausted) {
				r := &domain.BookingRejection{}
				r.Add(nil, domain.ErrQuotaExhausted)
				return r
			}
			uc.logger.Error("CreateBookings: failed to consume quota: %v", err)
			return fmt.Errorf("%w: failed to consume quota: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		var rejection *domain.BookingRejection
		if errors.As(err, &rejection) {
			uc.logger.Warn("CreateBookings: rejected for client=%d: %v", req.ClientID, rejection)
			for _, v := range rejection.Violations {
				uc.metrics.BookingRejected(operation, domain.Kind(v.Reason))
			}
		}
		return nil, err
	}

	uc.logger.Info("CreateBookings: created %d bookings for client=%d, quota %s remaining=%d",
		len(created), req.ClientID, balance.Source, balance.Remaining)

	// 5. Уведомления после коммита
	uc.metrics.BookingCreated(string(req.BookingType), len(created))
	for _, b := range created {
		uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingConfirmed, b))
	}

	// 6. Напоминание о продлении пакета
	if balance.Package != nil && balance.Package.RemainingSessions <= settings.RenewalReminderThreshold {
		uc.logger.Info("CreateBookings: package id=%d has %d sessions left, sending renewal reminder",
			balance.Package.ID, balance.Package.RemainingSessions)
		uc.notifier.Notify(ctx, domain.NewRenewalReminder(created[len(created)-1], balance.Package))
	}

	return &Response{
		Bookings:       created,
		QuotaSource:    balance.Source,
		QuotaRemaining: balance.Remaining,
	}, nil
}

// loadWindows строит окна доступности для каждой даты (календарь тренера), на которую попадают слоты
func (uc *UseCase) loadWindows(
	ctx context.Context,
	req *Request,
	slots []domain.Slot,
	loc *time.Location,
) (map[string][]scheduling.Window, error) {
	first := scheduling.LocalDate(slots[0].StartsAt, loc)
	last := scheduling.LocalDate(slots[len(slots)-1].StartsAt, loc)

	bookingType := req.BookingType
	templates, err := uc.availabilityRepo.ListTemplates(ctx, domain.AvailabilityFilter{
		CoachID:     req.CoachID,
		BookingType: &bookingType,
	})
	if err != nil {
		uc.logger.Error("CreateBookings: failed to get templates: %v", err)
		return nil, fmt.Errorf("%w: failed to get templates: %w", ErrInternal, err)
	}

	overrides, err := uc.availabilityRepo.ListOverrides(ctx, domain.AvailabilityFilter{
		CoachID:     req.CoachID,
		BookingType: &bookingType,
		From:        &first,
		To:          &last,
	})
	if err != nil {
		uc.logger.Error("CreateBookings: failed to get overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get overrides: %w", ErrInternal, err)
	}

	windows := make(map[string][]scheduling.Window)
	for _, slot := range slots {
		day := scheduling.LocalDate(slot.StartsAt, loc)
		key := day.Format(domain.DateFormat)
		if _, ok := windows[key]; ok {
			continue
		}
		windows[key] = scheduling.ResolveWindows(day, loc, templates, overrides)
	}

	return windows, nil
}
