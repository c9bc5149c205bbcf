package create_bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

var (
	// ErrCoachNotFound возвращается, когда тренер не найден
	ErrCoachNotFound = fmt.Errorf("create_bookings: coach %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_bookings: %w", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_bookings: internal error")
)
