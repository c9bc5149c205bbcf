package cancel_booking

import (
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	cancelBooking "github.com/m04kA/SMC-CoachBookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
// Тело опционально
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Booking          *models.BookingResponse `json:"booking"`
	AlreadyCancelled bool                    `json:"alreadyCancelled"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(userID, bookingID int64) *cancelBooking.Request {
	return &cancelBooking.Request{
		UserID:    userID,
		BookingID: bookingID,
		Reason:    r.CancellationReason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		Booking:          models.FromDomainBooking(resp.Booking),
		AlreadyCancelled: resp.AlreadyCancelled,
	}
}
