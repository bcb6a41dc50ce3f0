package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository читает каталог салонов: услуги и мастеров
// Каталог ведется другими сервисами, здесь только чтение
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var serviceColumns = []string{"id", "salon_id", "name", "price", "duration"}

var professionalColumns = []string{"id", "salon_id", "name", "is_available"}

// GetService получает услугу салона по ID
func (r *Repository) GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "salon_id": salonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanService(ctx, "GetService", query, args)
}

// FindServiceByName ищет услугу салона по названию без учета регистра
func (r *Repository) FindServiceByName(ctx context.Context, salonID int64, name string) (*domain.Service, error) {
	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where("LOWER(name) = LOWER(?)", name).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindServiceByName - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanService(ctx, "FindServiceByName", query, args)
}

func (r *Repository) scanService(ctx context.Context, op, query string, args []interface{}) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		s        domain.Service
		duration sql.NullString
	)
	err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.SalonID, &s.Name, &s.Price, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service: %v", ErrScanRow, op, err)
	}

	s.Duration = duration.String
	return &s, nil
}

// GetProfessional получает мастера по ID
func (r *Repository) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(professionalColumns...).
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Professional
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.SalonID, &p.Name, &p.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan professional: %v", ErrScanRow, err)
	}

	return &p, nil
}

// ListProfessionals все мастера всех салонов (для генератора сеток)
func (r *Repository) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	return r.listProfessionals(ctx, "ListProfessionals", psqlbuilder.Select(professionalColumns...).
		From("professionals").
		OrderBy("id ASC"))
}

// ListSalonProfessionals доступные мастера салона
func (r *Repository) ListSalonProfessionals(ctx context.Context, salonID int64) ([]domain.Professional, error) {
	return r.listProfessionals(ctx, "ListSalonProfessionals", psqlbuilder.Select(professionalColumns...).
		From("professionals").
		Where(squirrel.Eq{"salon_id": salonID, "is_available": true}).
		OrderBy("id ASC"))
}

func (r *Repository) listProfessionals(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]domain.Professional, 0)
	for rows.Next() {
		var p domain.Professional
		if err := rows.Scan(&p.ID, &p.SalonID, &p.Name, &p.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: %s - scan professional: %v", ErrScanRow, op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}
