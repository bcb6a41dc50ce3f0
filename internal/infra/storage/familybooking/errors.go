package familybooking

import "errors"

var (
	// ErrFamilyBookingNotFound возвращается, когда семейная запись не найдена
	ErrFamilyBookingNotFound = errors.New("familybooking.repository: family booking not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("familybooking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("familybooking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("familybooking.repository: failed to scan row")
)
