package userservice

import "errors"

var (
	// ErrCoachNotFound возвращается, когда тренер не найден или неактивен
	ErrCoachNotFound = errors.New("coach not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// UserService недоступен, существование тренера не подтверждено
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
