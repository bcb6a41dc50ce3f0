package familybooking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Repository репозиторий семейных записей (family_bookings + family_booking_items)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"salon_id",
	"booking_date",
	"total_price",
	"status",
	"special_instructions",
	"is_group_booking",
	"created_at",
	"updated_at",
}

var itemColumns = []string{
	"id",
	"family_booking_id",
	"position",
	"member_name",
	"member_relationship",
	"member_preferences",
	"service_id",
	"service_name",
	"service_price",
	"service_duration",
	"professional_id",
	"start_time",
	"end_time",
	"notes",
	"status",
	"is_additional",
}

// Create сохраняет семейную запись и все ее позиции
func (r *Repository) Create(ctx context.Context, b *domain.FamilyBooking) (*domain.FamilyBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("family_bookings").
		Columns(
			"customer_name",
			"customer_email",
			"customer_phone",
			"salon_id",
			"booking_date",
			"total_price",
			"status",
			"special_instructions",
			"is_group_booking",
		).
		Values(
			b.Customer.Name,
			b.Customer.Email,
			b.Customer.Phone,
			b.SalonID,
			domain.DateOnly(b.BookingDate),
			b.TotalPrice,
			b.Status,
			b.SpecialInstructions,
			b.IsGroupBooking,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	for i := range b.Items {
		item := &b.Items[i]
		item.FamilyBookingID = b.ID
		item.Position = i

		query, args, err := psqlbuilder.Insert("family_booking_items").
			Columns(itemColumns[1:]...).
			Values(
				item.FamilyBookingID,
				item.Position,
				item.Member.Name,
				item.Member.Relationship,
				item.Member.Preferences,
				item.ServiceID,
				item.ServiceName,
				item.ServicePrice,
				item.ServiceDuration,
				item.ProfessionalID,
				nullableTime(item.StartTime),
				nullableTime(item.EndTime),
				item.Notes,
				item.Status,
				item.IsAdditional,
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build item insert: %v", ErrBuildQuery, err)
		}
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("%w: Create - insert item %d: %v", ErrExecQuery, i, err)
		}
	}

	return b, nil
}

// GetByID получает семейную запись с позициями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.FamilyBooking, error) {
	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("family_bookings").
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
		return nil, ErrFamilyBookingNotFound
	}
	return list[0], nil
}

// ListByCustomer семейные записи клиента по email или телефону
func (r *Repository) ListByCustomer(ctx context.Context, filter domain.CustomerFilter) ([]*domain.FamilyBooking, error) {
	or := squirrel.Or{}
	if filter.Email != "" {
		or = append(or, squirrel.Expr("LOWER(customer_email) = LOWER(?)", filter.Email))
	}
	if filter.Phone != "" {
		or = append(or, squirrel.Eq{"customer_phone": filter.Phone})
	}

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("family_bookings").
		Where(or).
		OrderBy("booking_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByCustomer", query, args)
}

// UpdateStatuses сохраняет общий статус и статусы всех позиций
func (r *Repository) UpdateStatuses(ctx context.Context, b *domain.FamilyBooking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("family_bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatuses - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrFamilyBookingNotFound
	}

	for _, item := range b.Items {
		query, args, err := psqlbuilder.Update("family_booking_items").
			Set("status", item.Status).
			Where(squirrel.Eq{"id": item.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateStatuses - build item update: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateStatuses - update item %d: %v", ErrExecQuery, item.ID, err)
		}
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]*domain.FamilyBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	list := make([]*domain.FamilyBooking, 0)
	byID := make(map[int64]*domain.FamilyBooking)

	for rows.Next() {
		var (
			b                    domain.FamilyBooking
			instructions         sql.NullString
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&b.ID,
			&b.Customer.Name,
			&b.Customer.Email,
			&b.Customer.Phone,
			&b.SalonID,
			&b.BookingDate,
			&b.TotalPrice,
			&b.Status,
			&instructions,
			&b.IsGroupBooking,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan family booking: %v", ErrScanRow, op, err)
		}
		if instructions.Valid {
			b.SpecialInstructions = &instructions.String
		}
		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		list = append(list, &b)
		byID[b.ID] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	rows.Close()

	if len(list) == 0 {
		return list, nil
	}
	if err := r.loadItems(ctx, executor, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) loadItems(ctx context.Context, executor DBExecutor, byID map[int64]*domain.FamilyBooking) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select(itemColumns...).
		From("family_booking_items").
		Where(squirrel.Eq{"family_booking_id": ids}).
		OrderBy("family_booking_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                    domain.FamilyBookingItem
			preferences, notes      sql.NullString
			serviceID, professional sql.NullInt64
			startTime, endTime      sql.NullString
		)
		if err := rows.Scan(
			&item.ID,
			&item.FamilyBookingID,
			&item.Position,
			&item.Member.Name,
			&item.Member.Relationship,
			&preferences,
			&serviceID,
			&item.ServiceName,
			&item.ServicePrice,
			&item.ServiceDuration,
			&professional,
			&startTime,
			&endTime,
			&notes,
			&item.Status,
			&item.IsAdditional,
		); err != nil {
			return fmt.Errorf("%w: loadItems - scan item: %v", ErrScanRow, err)
		}

		if preferences.Valid {
			item.Member.Preferences = &preferences.String
		}
		if notes.Valid {
			item.Notes = &notes.String
		}
		if serviceID.Valid {
			item.ServiceID = &serviceID.Int64
		}
		if professional.Valid {
			item.ProfessionalID = &professional.Int64
		}
		item.StartTime = types.TimeString(startTime.String)
		item.EndTime = types.TimeString(endTime.String)

		if b, ok := byID[item.FamilyBookingID]; ok {
			b.Items = append(b.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// nullableTime пустое время хранится как NULL
func nullableTime(t types.TimeString) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
