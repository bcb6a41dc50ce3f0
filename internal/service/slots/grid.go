package slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Window рабочее окно дня [Open, Close) и ширина тика
type Window struct {
	Open        types.TimeString
	Close       types.TimeString
	TickMinutes int
}

// DefaultWindow 09:00-18:00 с шагом 5 минут
func DefaultWindow() Window {
	return Window{
		Open:        types.MustTimeString(domain.DefaultOpenTime),
		Close:       types.MustTimeString(domain.DefaultCloseTime),
		TickMinutes: domain.DefaultTickMinutes,
	}
}

// NewWindow парсит границы окна и проверяет его
func NewWindow(open, close string, tickMinutes int) (Window, error) {
	o, err := types.NewTimeStringFromString(open)
	if err != nil {
		return Window{}, fmt.Errorf("%w: open: %v", ErrInvalidWindow, err)
	}
	c, err := types.NewTimeStringFromString(close)
	if err != nil {
		return Window{}, fmt.Errorf("%w: close: %v", ErrInvalidWindow, err)
	}

	w := Window{Open: o, Close: c, TickMinutes: tickMinutes}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate окно, которое не делится на тики ровно, отклоняется (последний тик не обрезается)
func (w Window) Validate() error {
	if w.TickMinutes <= 0 {
		return fmt.Errorf("%w: tick width must be positive, got %d", ErrInvalidWindow, w.TickMinutes)
	}
	if err := w.Open.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if err := w.Close.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	length := w.Open.MinutesUntil(w.Close)
	if length <= 0 {
		return fmt.Errorf("%w: open %s must be before close %s", ErrInvalidWindow, w.Open, w.Close)
	}
	if length%w.TickMinutes != 0 {
		return fmt.Errorf("%w: %d minutes window is not divisible by %d minute ticks",
			ErrInvalidWindow, length, w.TickMinutes)
	}
	return nil
}

// TicksPerDay количество тиков в дне
func (w Window) TicksPerDay() int {
	if w.TickMinutes <= 0 {
		return 0
	}
	return w.Open.MinutesUntil(w.Close) / w.TickMinutes
}

// Contains returns true if [start, end) lies inside the window
func (w Window) Contains(start, end types.TimeString) bool {
	return start >= w.Open && end <= w.Close && start < end
}

// BuildDayGrid строит упорядоченную сетку тиков мастера на дату
// Функция чистая, ничего не пишет в хранилище
func BuildDayGrid(salonID, professionalID int64, date time.Time, w Window) ([]domain.Tick, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	day := domain.DateOnly(date)
	ticks := make([]domain.Tick, 0, w.TicksPerDay())

	for m := w.Open.Minutes(); m < w.Close.Minutes(); m += w.TickMinutes {
		start, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
		end, err := start.AddMinutes(w.TickMinutes)
		if err != nil {
			// Окно до 24:00 не поддерживается: конец последнего тика выходит за сутки
			return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}

		ticks = append(ticks, domain.Tick{
			SalonID:        salonID,
			ProfessionalID: professionalID,
			Date:           day,
			StartTime:      start,
			EndTime:        end,
		})
	}

	return ticks, nil
}
