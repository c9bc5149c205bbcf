package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CoachBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotResponse слот с количеством свободных мест
type AvailableSlotResponse struct {
	StartsAt       string `json:"startsAt"`
	EndsAt         string `json:"endsAt"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	CoachID         int64                   `json:"coachId"`
	BookingType     string                  `json:"bookingType"`
	From            string                  `json:"from"`
	Days            int                     `json:"days"`
	DurationMinutes int                     `json:"durationMinutes"`
	TimeZone        string                  `json:"timeZone"`
	Slots           []AvailableSlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос к use case из query параметров
// days и duration опциональны
func ToUseCaseRequest(coachID int64, typeStr, dateStr, daysStr, durationStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	req := &getAvailableSlots.Request{
		CoachID:     coachID,
		BookingType: domain.BookingType(typeStr),
		Date:        date,
	}

	if daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return nil, fmt.Errorf("days: %w", err)
		}
		req.Days = days
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		req.DurationMinutes = &duration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, AvailableSlotResponse{
			StartsAt:       s.StartsAt.Format(time.RFC3339),
			EndsAt:         s.EndsAt.Format(time.RFC3339),
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return &AvailableSlotsResponse{
		CoachID:         resp.CoachID,
		BookingType:     string(resp.BookingType),
		From:            resp.From.Format(domain.DateFormat),
		Days:            resp.Days,
		DurationMinutes: resp.DurationMinutes,
		TimeZone:        resp.TimeZone,
		Slots:           slots,
	}
}
