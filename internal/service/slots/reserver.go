package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	reservationReserved = "reserved"
	reservationConflict = "conflict"
	reservationError    = "error"
)

// Reserver резервирует и освобождает тики
// Методы должны вызываться внутри транзакции (txmanager), иначе гарантия CAS теряет смысл
type Reserver struct {
	generator *Generator
	tickRepo  TimeSlotRepository
	metrics   Metrics
	logger    Logger
}

// NewReserver создает резервер
func NewReserver(generator *Generator, tickRepo TimeSlotRepository, metrics Metrics, logger Logger) *Reserver {
	return &Reserver{
		generator: generator,
		tickRepo:  tickRepo,
		metrics:   metrics,
		logger:    logger,
	}
}

// CheckFree проверяет, что [start, end) целиком покрыт свободными тиками без разрывов
func (r *Reserver) CheckFree(ctx context.Context, professionalID int64, date time.Time, start, end types.TimeString) error {
	ticks, err := r.loadInterval(ctx, professionalID, date, start, end)
	if err != nil {
		return err
	}

	for i := range ticks {
		if ticks[i].IsBooked {
			return fmt.Errorf("%w: tick %s-%s is booked", ErrSlotNotAvailable, ticks[i].StartTime, ticks[i].EndTime)
		}
	}
	return nil
}

// Reserve помечает тики [start, end) занятыми владельцем owner
// Обновление условное (is_booked = false), число измененных строк обязано совпасть с числом тиков
func (r *Reserver) Reserve(
	ctx context.Context,
	professionalID int64,
	date time.Time,
	start, end types.TimeString,
	owner domain.TickOwner,
) ([]int64, error) {
	if !owner.IsValid() {
		return nil, ErrInvalidOwner
	}

	ticks, err := r.loadInterval(ctx, professionalID, date, start, end)
	if err != nil {
		r.record(err)
		return nil, err
	}

	ids := make([]int64, 0, len(ticks))
	for i := range ticks {
		if ticks[i].IsBooked {
			err := fmt.Errorf("%w: tick %s-%s is booked", ErrSlotNotAvailable, ticks[i].StartTime, ticks[i].EndTime)
			r.record(err)
			return nil, err
		}
		ids = append(ids, ticks[i].ID)
	}

	affected, err := r.tickRepo.MarkBooked(ctx, ids, owner)
	if err != nil {
		err = fmt.Errorf("%w: Reserve - mark booked: %v", ErrInternal, err)
		r.record(err)
		return nil, err
	}
	if affected != int64(len(ids)) {
		err := fmt.Errorf("%w: %d of %d ticks were taken concurrently", ErrSlotNotAvailable, int64(len(ids))-affected, len(ids))
		r.record(err)
		return nil, err
	}

	r.record(nil)
	r.logger.Info("Reserve: professional=%d date=%s %s-%s booked %d ticks for %s",
		professionalID, date.Format(domain.DateFormat), start, end, len(ids), owner)
	return ids, nil
}

// Release освобождает все тики владельца, возвращает число освобожденных
func (r *Reserver) Release(ctx context.Context, owner domain.TickOwner) (int64, error) {
	if !owner.IsValid() {
		return 0, ErrInvalidOwner
	}

	released, err := r.tickRepo.ReleaseByOwner(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("%w: Release - %v", ErrInternal, err)
	}

	if released > 0 {
		r.logger.Info("Release: freed %d ticks of %s", released, owner)
	}
	return released, nil
}

// loadInterval гарантирует наличие сетки и возвращает тики, пересекающие [start, end)
// Тики должны покрывать интервал целиком и идти без разрывов
func (r *Reserver) loadInterval(
	ctx context.Context,
	professionalID int64,
	date time.Time,
	start, end types.TimeString,
) ([]domain.Tick, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	if err := end.Validate(); err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInterval, start, end)
	}

	if _, err := r.generator.EnsureDay(ctx, professionalID, date); err != nil {
		return nil, err
	}

	ticks, err := r.tickRepo.GetOverlapping(ctx, professionalID, date, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: get overlapping ticks: %v", ErrInternal, err)
	}

	if err := checkCoverage(ticks, start, end); err != nil {
		return nil, err
	}
	return ticks, nil
}

func checkCoverage(ticks []domain.Tick, start, end types.TimeString) error {
	if len(ticks) == 0 {
		return fmt.Errorf("%w: no ticks for %s-%s", ErrSlotNotAvailable, start, end)
	}
	if ticks[0].StartTime > start || ticks[len(ticks)-1].EndTime < end {
		return fmt.Errorf("%w: %s-%s is outside working hours", ErrSlotNotAvailable, start, end)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].StartTime != ticks[i-1].EndTime {
			return fmt.Errorf("%w: gap at %s", ErrSlotNotAvailable, ticks[i-1].EndTime)
		}
	}
	return nil
}

func (r *Reserver) record(err error) {
	if r.metrics == nil {
		return
	}
	switch {
	case err == nil:
		r.metrics.RecordReservation(reservationReserved)
	case isConflict(err):
		r.metrics.RecordReservation(reservationConflict)
	default:
		r.metrics.RecordReservation(reservationError)
	}
}
