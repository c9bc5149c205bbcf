package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/scheduling"
)

const operation = "reschedule"

// UseCase use case для переноса бронирования на другой слот
// Квота не меняется: бронирование остается тем же
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	settings         SettingsResolver
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
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		settings:         settings,
		notifier:         notifier,
		metrics:          metrics,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d by user=%d to %s",
		req.BookingID, req.UserID, req.NewSlot.StartsAt.Format("2006-01-02T15:04Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var resp *Response

	// 3. Проверки и перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование и роль пользователя в нем
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		actor, ok := booking.ActorFor(req.UserID)
		if !ok {
			uc.logger.Warn("RescheduleBooking: user=%d is not a party of booking id=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		if booking.IsCancelled() {
			return fmt.Errorf("%w: booking id=%d", domain.ErrBookingCancelled, booking.ID)
		}

		// 3.2. Блокировки тренера и клиента
		if err := uc.bookingRepo.LockCoach(txCtx, booking.CoachID); err != nil {
			return fmt.Errorf("%w: failed to lock coach: %w", ErrInternal, err)
		}
		if err := uc.bookingRepo.LockClient(txCtx, booking.ClientID); err != nil {
			return fmt.Errorf("%w: failed to lock client: %w", ErrInternal, err)
		}

		// 3.3. Настройки тренера
		settings, _, err := uc.settings.Resolve(txCtx, booking.CoachID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to resolve settings: %v", err)
			return fmt.Errorf("%w: failed to resolve settings: %w", ErrInternal, err)
		}
		policy := scheduling.NewPolicy(settings, now)
		loc := settings.Location()

		// 3.4. Можно ли еще менять текущую запись
		if err := policy.CheckModifiable(booking, actor); err != nil {
			return fmt.Errorf("%w: booking id=%d starts too soon to move", err, booking.ID)
		}

		// 3.5. Новый слот проверяется как одиночная запись, без учета самого бронирования
		slot := req.NewSlot
		rejection := &domain.BookingRejection{}

		if err := policy.CheckDuration(slot, booking.BookingType); err != nil {
			rejection.Add(&slot, err)
			return rejection
		}
		if err := policy.CheckBookable(slot); err != nil {
			rejection.Add(&slot, err)
		}

		windows, err := uc.windowsFor(txCtx, booking, slot, loc)
		if err != nil {
			return err
		}

		coachBookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			CoachID:   &booking.CoachID,
			From:      &slot.StartsAt,
			To:        &slot.EndsAt,
			ExcludeID: &booking.ID,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get coach bookings: %v", err)
			return fmt.Errorf("%w: failed to get coach bookings: %w", ErrInternal, err)
		}
		if err := scheduling.CheckCapacity(windows, slot, policy.Duration(booking.BookingType), coachBookings); err != nil {
			rejection.Add(&slot, err)
		}

		clientBookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ClientID:  &booking.ClientID,
			From:      &slot.StartsAt,
			To:        &slot.EndsAt,
			ExcludeID: &booking.ID,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get client bookings: %v", err)
			return fmt.Errorf("%w: failed to get client bookings: %w", ErrInternal, err)
		}
		if overlapsAny(slot, clientBookings) {
			rejection.Add(&slot, domain.ErrOverlapConflict)
		}

		if rejection.HasViolations() {
			return rejection
		}

		// 3.6. Переносим
		if err := uc.bookingRepo.UpdateSlot(txCtx, booking.ID, slot); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotActive) {
				return fmt.Errorf("%w: booking id=%d", domain.ErrBookingCancelled, booking.ID)
			}
			uc.logger.Error("RescheduleBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		previous := booking.Slot()
		booking.StartsAt, booking.EndsAt = slot.StartsAt, slot.EndsAt
		resp = &Response{Booking: booking, Previous: previous, Actor: actor}
		return nil
	})

	if err != nil {
		var rejection *domain.BookingRejection
		switch {
		case errors.As(err, &rejection):
			for _, v := range rejection.Violations {
				uc.metrics.BookingRejected(operation, domain.Kind(v.Reason))
			}
			uc.logger.Warn("RescheduleBooking: rejected booking id=%d: %v", req.BookingID, rejection)
		case errors.Is(err, domain.ErrNoticeViolation):
			uc.metrics.BookingRejected(operation, domain.Kind(err))
			uc.logger.Warn("RescheduleBooking: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved by %s", resp.Booking.ID, resp.Actor)

	// 4. Уведомление после коммита
	uc.metrics.BookingRescheduled()
	uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingRescheduled, resp.Booking))

	return resp, nil
}

// windowsFor строит окна доступности на дату нового слота
func (uc *UseCase) windowsFor(
	ctx context.Context,
	booking *domain.Booking,
	slot domain.Slot,
	loc *time.Location,
) ([]scheduling.Window, error) {
	day := scheduling.LocalDate(slot.StartsAt, loc)
	bookingType := booking.BookingType

	templates, err := uc.availabilityRepo.ListTemplates(ctx, domain.AvailabilityFilter{
		CoachID:     booking.CoachID,
		BookingType: &bookingType,
	})
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get templates: %v", err)
		return nil, fmt.Errorf("%w: failed to get templates: %w", ErrInternal, err)
	}

	overrides, err := uc.availabilityRepo.ListOverrides(ctx, domain.AvailabilityFilter{
		CoachID:     booking.CoachID,
		BookingType: &bookingType,
		From:        &day,
		To:          &day,
	})
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get overrides: %w", ErrInternal, err)
	}

	return scheduling.ResolveWindows(day, loc, templates, overrides), nil
}
