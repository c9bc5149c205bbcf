package get_quota

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// coachId и type обязательны, packageId опционален
func ToServiceRequest(clientID, userID int64, coachIDStr, typeStr, packageIDStr string) (*models.GetQuotaRequest, error) {
	coachID, err := strconv.ParseInt(coachIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coachId value: %w", err)
	}

	req := &models.GetQuotaRequest{
		UserID:      userID,
		ClientID:    clientID,
		CoachID:     coachID,
		BookingType: domain.BookingType(typeStr),
	}

	if packageIDStr != "" {
		packageID, err := strconv.ParseInt(packageIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid packageId value: %w", err)
		}
		req.PackageID = &packageID
	}

	return req, nil
}
