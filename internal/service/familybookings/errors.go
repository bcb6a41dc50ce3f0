package familybookings

import "errors"

var (
	// ErrFamilyBookingNotFound возвращается, когда семейная запись не найдена
	ErrFamilyBookingNotFound = errors.New("family booking not found")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("family booking is already cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
