package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CoachBookingService/pkg/types"
)

// Repository хранилище еженедельных шаблонов доступности и исключений по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateTemplate сохраняет шаблон доступности
func (r *Repository) CreateTemplate(ctx context.Context, t *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_templates").
		Columns(
			"coach_id",
			"booking_type",
			"day_of_week",
			"start_time",
			"end_time",
			"max_concurrent_clients",
		).
		Values(
			t.CoachID,
			t.BookingType,
			t.DayOfWeek,
			t.StartTime,
			t.EndTime,
			t.MaxConcurrentClients,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %w", ErrExecQuery, err)
	}

	return t, nil
}

// ListTemplates получает шаблоны тренера по фильтру (тип и день недели опциональны)
func (r *Repository) ListTemplates(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"coach_id",
		"booking_type",
		"day_of_week",
		"start_time",
		"end_time",
		"max_concurrent_clients",
		"created_at",
	).
		From("availability_templates").
		Where(squirrel.Eq{"coach_id": filter.CoachID}).
		OrderBy("day_of_week ASC", "start_time ASC")

	if filter.BookingType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_type": *filter.BookingType})
	}
	if filter.DayOfWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": *filter.DayOfWeek})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.AvailabilityTemplate, 0)
	for rows.Next() {
		var t domain.AvailabilityTemplate
		err := rows.Scan(
			&t.ID,
			&t.CoachID,
			&t.BookingType,
			&t.DayOfWeek,
			&t.StartTime,
			&t.EndTime,
			&t.MaxConcurrentClients,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTemplates - scan row: %w", ErrScanRow, err)
		}
		templates = append(templates, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// DeleteTemplate удаляет шаблон тренера
func (r *Repository) DeleteTemplate(ctx context.Context, coachID, id int64) error {
	return r.delete(ctx, "availability_templates", coachID, id, ErrTemplateNotFound)
}

// CreateOverride сохраняет исключение из расписания на дату
func (r *Repository) CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns(
			"coach_id",
			"booking_type",
			"override_date",
			"start_time",
			"end_time",
			"is_blocked",
			"max_concurrent_clients",
		).
		Values(
			o.CoachID,
			o.BookingType,
			o.Date.Format(domain.DateFormat),
			o.StartTime,
			o.EndTime,
			o.IsBlocked,
			o.MaxConcurrentClients,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// ListOverrides получает исключения тренера в диапазоне дат [From, To]
func (r *Repository) ListOverrides(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"coach_id",
		"booking_type",
		"override_date",
		"start_time",
		"end_time",
		"is_blocked",
		"max_concurrent_clients",
		"created_at",
	).
		From("availability_overrides").
		Where(squirrel.Eq{"coach_id": filter.CoachID}).
		OrderBy("override_date ASC", "start_time ASC NULLS FIRST")

	if filter.BookingType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_type": *filter.BookingType})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"override_date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"override_date": filter.To.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.AvailabilityOverride, 0)
	for rows.Next() {
		var o domain.AvailabilityOverride
		var startTime, endTime sql.NullString
		var maxClients sql.NullInt64

		err := rows.Scan(
			&o.ID,
			&o.CoachID,
			&o.BookingType,
			&o.Date,
			&startTime,
			&endTime,
			&o.IsBlocked,
			&maxClients,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %w", ErrScanRow, err)
		}

		if startTime.Valid && endTime.Valid {
			start, err := types.NewTimeStringFromString(startTime.String)
			if err != nil {
				return nil, fmt.Errorf("%w: ListOverrides - start_time: %w", ErrScanRow, err)
			}
			end, err := types.NewTimeStringFromString(endTime.String)
			if err != nil {
				return nil, fmt.Errorf("%w: ListOverrides - end_time: %w", ErrScanRow, err)
			}
			o.StartTime = &start
			o.EndTime = &end
		}
		if maxClients.Valid {
			v := int(maxClients.Int64)
			o.MaxConcurrentClients = &v
		}

		overrides = append(overrides, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %w", ErrScanRow, err)
	}

	return overrides, nil
}

// DeleteOverride удаляет исключение тренера
func (r *Repository) DeleteOverride(ctx context.Context, coachID, id int64) error {
	return r.delete(ctx, "availability_overrides", coachID, id, ErrOverrideNotFound)
}

func (r *Repository) delete(ctx context.Context, table string, coachID, id int64, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "coach_id": coachID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: delete %s - build query: %w", ErrBuildQuery, table, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: delete %s - execute: %w", ErrExecQuery, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %s - get rows affected: %w", ErrExecQuery, table, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
