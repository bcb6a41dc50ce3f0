package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Repository репозиторий тиков (таблица time_slots)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var tickColumns = []string{
	"id",
	"salon_id",
	"professional_id",
	"date",
	"start_time",
	"end_time",
	"is_booked",
	"appointment_id",
	"family_booking_id",
	"created_at",
	"updated_at",
}

// BulkCreate вставляет тики, уже существующие пропускаются
// Уникальность обеспечивает индекс (professional_id, date, start_time, end_time)
// Возвращает количество вставленных строк
func (r *Repository) BulkCreate(ctx context.Context, ticks []domain.Tick) (int64, error) {
	if len(ticks) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("time_slots").
		Columns("salon_id", "professional_id", "date", "start_time", "end_time", "is_booked")
	for _, t := range ticks {
		builder = builder.Values(t.SalonID, t.ProfessionalID, t.Date, t.StartTime, t.EndTime, false)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (professional_id, date, start_time, end_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BulkCreate - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetByProfessionalAndDate сетка мастера на дату, по возрастанию времени начала
func (r *Repository) GetByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]domain.Tick, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tickColumns...).
		From("time_slots").
		Where(squirrel.Eq{"professional_id": professionalID, "date": domain.DateOnly(date)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessionalAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// GetOverlapping тики мастера на дату, пересекающие [start, end)
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetOverlapping(
	ctx context.Context,
	professionalID int64,
	date time.Time,
	start, end types.TimeString,
) ([]domain.Tick, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(tickColumns...).
		From("time_slots").
		Where(squirrel.Eq{"professional_id": professionalID, "date": domain.DateOnly(date)}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTicks(rows)
}

// MarkBooked помечает свободные тики из ids занятыми владельцем owner
// Занятые тики не трогаются: вызывающий сравнивает результат с len(ids)
func (r *Repository) MarkBooked(ctx context.Context, ids []int64, owner domain.TickOwner) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if !owner.IsValid() {
		return 0, ErrInvalidOwner
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", true).
		Set("appointment_id", owner.AppointmentID).
		Set("family_booking_id", owner.FamilyBookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids, "is_booked": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}
	return affected, nil
}

// ReleaseByOwner освобождает все тики владельца
func (r *Repository) ReleaseByOwner(ctx context.Context, owner domain.TickOwner) (int64, error) {
	if !owner.IsValid() {
		return 0, ErrInvalidOwner
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("time_slots").
		Set("is_booked", false).
		Set("appointment_id", nil).
		Set("family_booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()"))

	if owner.AppointmentID != nil {
		builder = builder.Where(squirrel.Eq{"appointment_id": *owner.AppointmentID})
	} else {
		builder = builder.Where(squirrel.Eq{"family_booking_id": *owner.FamilyBookingID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByOwner - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByOwner - execute update: %v", ErrExecQuery, err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByOwner - get rows affected: %v", ErrExecQuery, err)
	}
	return released, nil
}

func scanTicks(rows *sql.Rows) ([]domain.Tick, error) {
	ticks := make([]domain.Tick, 0)

	for rows.Next() {
		var (
			t                    domain.Tick
			appointmentID        sql.NullInt64
			familyBookingID      sql.NullInt64
			createdAt, updatedAt sql.NullTime
		)

		if err := rows.Scan(
			&t.ID,
			&t.SalonID,
			&t.ProfessionalID,
			&t.Date,
			&t.StartTime,
			&t.EndTime,
			&t.IsBooked,
			&appointmentID,
			&familyBookingID,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan tick: %v", ErrScanRow, err)
		}

		if appointmentID.Valid {
			t.AppointmentID = &appointmentID.Int64
		}
		if familyBookingID.Valid {
			t.FamilyBookingID = &familyBookingID.Int64
		}
		t.CreatedAt = createdAt.Time
		t.UpdatedAt = updatedAt.Time

		ticks = append(ticks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return ticks, nil
}
