package appointment

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

// Repository репозиторий записей (appointments + appointment_services)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"salon_id",
	"professional_id",
	"date",
	"start_time",
	"end_time",
	"customer_name",
	"customer_phone",
	"customer_email",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Create сохраняет запись вместе со снимком услуг
// Вызывается внутри транзакции usecase'а создания, но работает и без нее
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"salon_id",
			"professional_id",
			"date",
			"start_time",
			"end_time",
			"customer_name",
			"customer_phone",
			"customer_email",
			"status",
			"notes",
		).
		Values(
			a.SalonID,
			a.ProfessionalID,
			domain.DateOnly(a.Date),
			a.StartTime,
			a.EndTime,
			a.Customer.Name,
			a.Customer.Phone,
			a.Customer.Email,
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	if len(a.Services) > 0 {
		builder := psqlbuilder.Insert("appointment_services").
			Columns("appointment_id", "position", "service_id", "name", "price", "duration", "duration_minutes")
		for i, s := range a.Services {
			builder = builder.Values(a.ID, i, s.ServiceID, s.Name, s.Price, s.Duration, s.DurationMinutes)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build services insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert services: %v", ErrExecQuery, err)
		}
	}

	return a, nil
}

// GetByID получает запись по ID вместе с услугами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	list, err := r.query(ctx, "GetByID", query, args)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return list[0], nil
}

// ListByCustomer записи клиента по email или телефону, новые первыми
func (r *Repository) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Appointment, error) {
	or := squirrel.Or{}
	if filter.Email != "" {
		or = append(or, squirrel.Expr("LOWER(customer_email) = LOWER(?)", filter.Email))
	}
	if filter.Phone != "" {
		or = append(or, squirrel.Eq{"customer_phone": filter.Phone})
	}

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(or).
		OrderBy("date DESC, start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByCustomer", query, args)
}

// ListBySalon записи салона с фильтрацией по дате и мастеру
func (r *Repository) ListBySalon(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"salon_id": filter.SalonID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": domain.DateOnly(*filter.Date)})
	}
	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListBySalon", query, args)
}

// Update сохраняет время, мастера и статус записи (используется при переносе)
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("professional_id", a.ProfessionalID).
		Set("date", domain.DateOnly(a.Date)).
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Set("status", a.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	a.UpdatedAt = updatedAt.Time
	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Delete удаляет запись, услуги удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// query выполняет выборку записей и догружает их услуги одним запросом
func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	list := make([]*domain.Appointment, 0)
	byID := make(map[int64]*domain.Appointment)

	for rows.Next() {
		var (
			a                    domain.Appointment
			professionalID       sql.NullInt64
			notes                sql.NullString
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&a.ID,
			&a.SalonID,
			&professionalID,
			&a.Date,
			&a.StartTime,
			&a.EndTime,
			&a.Customer.Name,
			&a.Customer.Phone,
			&a.Customer.Email,
			&a.Status,
			&notes,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}

		if professionalID.Valid {
			a.ProfessionalID = &professionalID.Int64
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		list = append(list, &a)
		byID[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	rows.Close()

	if len(list) == 0 {
		return list, nil
	}
	if err := r.loadServices(ctx, executor, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) loadServices(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Appointment) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "name", "price", "duration", "duration_minutes").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID int64
			serviceID     sql.NullInt64
			item          domain.ServiceLineItem
		)
		if err := rows.Scan(&appointmentID, &serviceID, &item.Name, &item.Price, &item.Duration, &item.DurationMinutes); err != nil {
			return fmt.Errorf("%w: loadServices - scan service: %v", ErrScanRow, err)
		}
		if serviceID.Valid {
			item.ServiceID = &serviceID.Int64
		}

		if a, ok := byID[appointmentID]; ok {
			a.Services = append(a.Services, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}
