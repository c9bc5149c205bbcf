package quota

import "errors"

var (
	// ErrAccessDenied возвращается, когда квоту клиента запрашивает посторонний пользователь
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("quota: internal error")
)
