package get_client_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// from/to - даты YYYY-MM-DD, to включительно
func ToServiceRequest(
	clientID int64,
	userID int64,
	typeStr string,
	fromStr string,
	toStr string,
	includeInactiveStr string,
) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		UserID:   userID,
		ClientID: &clientID,
	}

	if typeStr != "" {
		req.BookingType = &typeStr
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
