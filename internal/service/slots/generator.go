package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

// Generator материализует сетку тиков в хранилище
type Generator struct {
	tickRepo     TimeSlotRepository
	profRepo     ProfessionalRepository
	window       Window
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewGenerator создает генератор. metrics может быть nil
func NewGenerator(
	tickRepo TimeSlotRepository,
	profRepo ProfessionalRepository,
	window Window,
	metrics Metrics,
	logger Logger,
) *Generator {
	return &Generator{
		tickRepo:     tickRepo,
		profRepo:     profRepo,
		window:       window,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Window рабочее окно, с которым работает генератор
func (g *Generator) Window() Window {
	return g.window
}

// EnsureDay возвращает сетку мастера на дату, создавая недостающие тики
// Повторный вызов не создает дублей (ON CONFLICT DO NOTHING в хранилище)
func (g *Generator) EnsureDay(ctx context.Context, professionalID int64, date time.Time) ([]domain.Tick, error) {
	existing, err := g.tickRepo.GetByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: EnsureDay - get ticks: %v", ErrInternal, err)
	}
	if len(existing) >= g.window.TicksPerDay() {
		return existing, nil
	}

	professional, err := g.profRepo.GetProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("%w: EnsureDay - get professional: %v", ErrInternal, err)
	}

	if _, err := g.createDay(ctx, professional, date); err != nil {
		return nil, err
	}

	ticks, err := g.tickRepo.GetByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: EnsureDay - reload ticks: %v", ErrInternal, err)
	}
	return ticks, nil
}

// GenerateHorizon создает сетки всех доступных мастеров на days дней начиная с from
// Возвращает количество реально вставленных тиков
func (g *Generator) GenerateHorizon(ctx context.Context, from time.Time, days int) (int64, error) {
	professionals, err := g.profRepo.ListProfessionals(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: GenerateHorizon - list professionals: %v", ErrInternal, err)
	}

	start := domain.DateOnly(from)
	var total int64

	for i := range professionals {
		if !professionals[i].IsAvailable {
			continue
		}
		for d := 0; d < days; d++ {
			if err := ctx.Err(); err != nil {
				return total, err
			}

			inserted, err := g.createDay(ctx, &professionals[i], start.AddDate(0, 0, d))
			if err != nil {
				return total, err
			}
			total += inserted
		}
	}

	return total, nil
}

// RunSweep генерирует горизонт при старте и затем каждые interval, пока ctx не отменен
// interval <= 0 означает однократный проход
func (g *Generator) RunSweep(ctx context.Context, days int, interval time.Duration) {
	g.sweepOnce(ctx, days)

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("SlotSweep: stopped")
			return
		case <-ticker.C:
			g.sweepOnce(ctx, days)
		}
	}
}

func (g *Generator) sweepOnce(ctx context.Context, days int) {
	started := g.timeProvider.Now()

	inserted, err := g.GenerateHorizon(ctx, started, days)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		g.logger.Error("SlotSweep: failed after %d ticks: %v", inserted, err)
		return
	}

	g.logger.Info("SlotSweep: horizon of %d days ready, %d new ticks, took %s",
		days, inserted, time.Since(started).Round(time.Millisecond))
}

func (g *Generator) createDay(ctx context.Context, professional *domain.Professional, date time.Time) (int64, error) {
	grid, err := BuildDayGrid(professional.SalonID, professional.ID, date, g.window)
	if err != nil {
		return 0, err
	}

	inserted, err := g.tickRepo.BulkCreate(ctx, grid)
	if err != nil {
		return 0, fmt.Errorf("%w: create ticks for professional=%d date=%s: %v",
			ErrInternal, professional.ID, date.Format(domain.DateFormat), err)
	}

	if inserted > 0 && g.metrics != nil {
		g.metrics.AddTicksGenerated(int(inserted))
	}
	return inserted, nil
}
