package slots

import "errors"

var (
	// ErrInvalidWindow возвращается, если рабочее окно не делится на тики без остатка
	ErrInvalidWindow = errors.New("slots: invalid business window")

	// ErrInvalidInterval возвращается, если начало интервала не раньше конца
	ErrInvalidInterval = errors.New("slots: invalid time interval")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("slots: professional not found")

	// ErrSlotNotAvailable возвращается, когда интервал не покрыт свободными тиками
	ErrSlotNotAvailable = errors.New("slots: slot is not available")

	// ErrInvalidOwner возвращается, если у резервирования нет владельца
	ErrInvalidOwner = errors.New("slots: invalid tick owner")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("slots: internal error")
)

func isConflict(err error) bool {
	return errors.Is(err, ErrSlotNotAvailable)
}
