package reschedule_booking

import (
	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-CoachBookingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	Booking  *models.BookingResponse `json:"booking"`
	Previous handlers.SlotDTO        `json:"previous"`
	Actor    string                  `json:"actor"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(userID, bookingID int64) (*rescheduleBooking.Request, error) {
	slot, err := handlers.SlotDTO{StartsAt: r.StartsAt, EndsAt: r.EndsAt}.ToDomain()
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		UserID:    userID,
		BookingID: bookingID,
		NewSlot:   slot,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		Booking:  models.FromDomainBooking(resp.Booking),
		Previous: handlers.FromDomainSlot(resp.Previous),
		Actor:    string(resp.Actor),
	}
}
