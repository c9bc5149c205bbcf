package quota

import "errors"

var (
	// ErrPlanNotFound возвращается, когда у клиента нет плана с тренером
	ErrPlanNotFound = errors.New("quota.repository: client plan not found")

	// ErrPackageNotFound возвращается, когда пакет сессий не найден
	ErrPackageNotFound = errors.New("quota.repository: session package not found")

	// ErrCounterNotFound возвращается, когда счетчика за период еще нет
	ErrCounterNotFound = errors.New("quota.repository: usage counter not found")

	// ErrPackageBalance возвращается, если изменение вывело бы остаток за пределы [0, total]
	ErrPackageBalance = errors.New("quota.repository: package balance out of range")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("quota.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("quota.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("quota.repository: failed to scan row")
)
