package create_family_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга позиции не найдена в каталоге
	ErrServiceNotFound = errors.New("create_family_booking: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер позиции не найден
	ErrProfessionalNotFound = errors.New("create_family_booking: professional not found")

	// ErrSlotConflict возвращается, когда интервал позиции занят
	// или пересекается с другой позицией того же мастера в этом же запросе
	ErrSlotConflict = errors.New("create_family_booking: time slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_family_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_family_booking: internal error")
)
