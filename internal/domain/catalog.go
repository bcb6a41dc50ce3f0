package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/duration"

// Service услуга из каталога салона (только чтение)
type Service struct {
	ID       int64
	SalonID  int64
	Name     string
	Price    float64
	Duration string // "1h 30min", может быть пустой
}

// DurationMinutes длительность услуги в минутах
func (s *Service) DurationMinutes() int {
	return duration.Parse(s.Duration)
}

// Professional мастер салона
type Professional struct {
	ID          int64
	SalonID     int64
	Name        string
	IsAvailable bool
}
