package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/availability/models"
)

// ToListRequest формирует запрос списка из query параметров
// from/to - даты YYYY-MM-DD, используются только для исключений
func ToListRequest(coachID int64, typeStr, fromStr, toStr string) (*models.ListRequest, error) {
	req := &models.ListRequest{CoachID: coachID}

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
		req.To = &to
	}

	return req, nil
}
