package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// GetQuotaRequest запрос остатка квоты клиента у тренера
type GetQuotaRequest struct {
	UserID      int64
	ClientID    int64
	CoachID     int64
	BookingType domain.BookingType
	PackageID   *int64
}

// QuotaResponse остаток квоты
// Значение справочное: окончательно квота проверяется при бронировании
type QuotaResponse struct {
	ClientID    int64      `json:"clientId"`
	CoachID     int64      `json:"coachId"`
	BookingType string     `json:"bookingType"`
	Source      string     `json:"source"`
	Remaining   int        `json:"remaining"`
	PackageID   *int64     `json:"packageId,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// FromDomainBalance конвертирует domain модель в DTO
func FromDomainBalance(b *domain.QuotaBalance) *QuotaResponse {
	resp := &QuotaResponse{
		ClientID:    b.ClientID,
		CoachID:     b.CoachID,
		BookingType: string(b.BookingType),
		Source:      string(b.Source),
		Remaining:   b.Remaining,
	}
	if b.Package != nil {
		resp.PackageID = &b.Package.ID
		resp.ExpiresAt = b.Package.ExpiresAt
	}
	return resp
}
