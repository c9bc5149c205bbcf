package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/scheduling"
)

const operation = "cancel"

// UseCase use case для отмены бронирования
// Отмена идемпотентна: повторный вызов возвращает успех и ничего не меняет
type UseCase struct {
	bookingRepo  BookingRepository
	settings     SettingsResolver
	quota        QuotaRefunder
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settings SettingsResolver,
	quota QuotaRefunder,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		settings:     settings,
		quota:        quota,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d by user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		resp  *Response
		actor domain.Actor
	)

	// 3. Отмена и возврат квоты в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование и роль пользователя в нем
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		var ok bool
		actor, ok = booking.ActorFor(req.UserID)
		if !ok {
			uc.logger.Warn("CancelBooking: user=%d is not a party of booking id=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		// 3.2. Уже отменено: успех без проверки уведомления и без возврата квоты
		if booking.IsCancelled() {
			resp = &Response{Booking: booking, AlreadyCancelled: true}
			return nil
		}

		// 3.3. Блокировки тренера и клиента
		if err := uc.bookingRepo.LockCoach(txCtx, booking.CoachID); err != nil {
			return fmt.Errorf("%w: failed to lock coach: %w", ErrInternal, err)
		}
		if err := uc.bookingRepo.LockClient(txCtx, booking.ClientID); err != nil {
			return fmt.Errorf("%w: failed to lock client: %w", ErrInternal, err)
		}

		// 3.4. Окно уведомления с учетом роли
		settings, _, err := uc.settings.Resolve(txCtx, booking.CoachID)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to resolve settings: %v", err)
			return fmt.Errorf("%w: failed to resolve settings: %w", ErrInternal, err)
		}
		if err := scheduling.NewPolicy(settings, now).CheckModifiable(booking, actor); err != nil {
			return fmt.Errorf("%w: booking id=%d starts too soon to cancel", err, booking.ID)
		}

		// 3.5. Отменяем
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, actor, req.Reason, now); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotActive) {
				resp = &Response{Booking: booking, AlreadyCancelled: true}
				return nil
			}
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		// 3.6. Возвращаем ровно ту единицу квоты, которую бронирование списало
		if err := uc.quota.Refund(txCtx, booking); err != nil {
			uc.logger.Error("CancelBooking: failed to refund quota for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to refund quota: %w", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancelledBy = &actor
		booking.CancellationReason = req.Reason
		booking.CancelledAt = &now
		resp = &Response{Booking: booking}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrNoticeViolation) {
			uc.metrics.BookingRejected(operation, domain.Kind(err))
			uc.logger.Warn("CancelBooking: %v", err)
		}
		return nil, err
	}

	if resp.AlreadyCancelled {
		uc.logger.Info("CancelBooking: booking id=%d already cancelled", req.BookingID)
		return resp, nil
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by %s", req.BookingID, actor)

	// 4. Уведомление после коммита
	uc.metrics.BookingCancelled(string(actor))
	uc.notifier.Notify(ctx, domain.NewBookingEvent(domain.EventBookingCancelled, resp.Booking))

	return resp, nil
}
