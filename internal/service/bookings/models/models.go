package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос списка бронирований клиента или тренера
// Ровно одно из ClientID/CoachID заполняется хендлером из пути
type ListBookingsRequest struct {
	UserID          int64
	ClientID        *int64
	CoachID         *int64
	BookingType     *string
	From            *time.Time
	To              *time.Time
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, bool) {
	filter := domain.BookingsFilter{
		ClientID:        r.ClientID,
		CoachID:         r.CoachID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.BookingType != nil {
		bookingType := domain.BookingType(*r.BookingType)
		if !bookingType.IsValid() {
			return filter, false
		}
		filter.BookingType = &bookingType
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, false
	}

	return filter, true
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"clientId"`
	CoachID     int64     `json:"coachId"`
	BookingType string    `json:"bookingType"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Status      string    `json:"status"`
	QuotaSource string    `json:"quotaSource"`
	PackageID   *int64    `json:"packageId,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ClientID:           b.ClientID,
		CoachID:            b.CoachID,
		BookingType:        string(b.BookingType),
		StartsAt:           b.StartsAt,
		EndsAt:             b.EndsAt,
		Status:             string(b.Status),
		QuotaSource:        string(b.QuotaSource),
		PackageID:          b.PackageID,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
