package create_bookings

import (
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
	createBookings "github.com/m04kA/SMC-CoachBookingService/internal/usecase/create_bookings"
)

// CreateBookingsRequest HTTP request model
// Клиент берется из X-User-ID
type CreateBookingsRequest struct {
	CoachID     int64              `json:"coachId"`
	BookingType string             `json:"bookingType"`
	Slots       []handlers.SlotDTO `json:"slots"`
	PackageID   *int64             `json:"packageId,omitempty"`
}

// CreateBookingsResponse HTTP response model
type CreateBookingsResponse struct {
	Bookings       []models.BookingResponse `json:"bookings"`
	QuotaSource    string                   `json:"quotaSource"`
	QuotaRemaining int                      `json:"quotaRemaining"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingsRequest) ToUseCaseRequest(clientID int64) (*createBookings.Request, error) {
	slots := make([]domain.Slot, 0, len(r.Slots))
	for i, dto := range r.Slots {
		slot, err := dto.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("slots[%d]: %w", i, err)
		}
		slots = append(slots, slot)
	}

	return &createBookings.Request{
		ClientID:    clientID,
		CoachID:     r.CoachID,
		BookingType: domain.BookingType(r.BookingType),
		Slots:       slots,
		PackageID:   r.PackageID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBookings.Response) *CreateBookingsResponse {
	return &CreateBookingsResponse{
		Bookings:       models.FromDomainBookingList(resp.Bookings).Bookings,
		QuotaSource:    string(resp.QuotaSource),
		QuotaRemaining: resp.QuotaRemaining,
	}
}
