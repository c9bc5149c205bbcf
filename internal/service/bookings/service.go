package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
// Изменения бронирований выполняются только через usecase'ы
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только его клиент и тренер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if _, ok := booking.ActorFor(userID); !ok {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования клиента или тренера
// Пользователь может смотреть только свой список
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	owner := ownerOf(req)
	s.logger.Info("List: fetching bookings for owner=%d by user=%d, includeInactive=%t",
		owner, req.UserID, req.IncludeInactive)

	if (req.ClientID == nil) == (req.CoachID == nil) {
		return nil, fmt.Errorf("%w: exactly one of client or coach must be set", ErrInvalidInput)
	}

	if owner != req.UserID {
		s.logger.Warn("List: access denied for user=%d to bookings of %d", req.UserID, owner)
		return nil, ErrAccessDenied
	}

	filter, ok := req.ToDomainFilter()
	if !ok {
		s.logger.Warn("List: invalid filter for owner=%d", owner)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for owner=%d: %v", owner, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings for owner=%d", len(bookings), owner)
	return models.FromDomainBookingList(bookings), nil
}

func ownerOf(req *models.ListBookingsRequest) int64 {
	if req.ClientID != nil {
		return *req.ClientID
	}
	if req.CoachID != nil {
		return *req.CoachID
	}
	return 0
}
