package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

var packageColumns = []string{
	"id",
	"client_id",
	"coach_id",
	"total_sessions",
	"remaining_sessions",
	"session_duration_minutes",
	"expires_at",
	"created_at",
}

// Repository хранилище источников квоты: планы клиентов, пакеты сессий, месячные счетчики
// Внутри транзакции все чтения блокируют строки (FOR UPDATE): квота проверяется и
// списывается в одной транзакции
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория квот
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPlan получает план клиента у тренера
func (r *Repository) GetPlan(ctx context.Context, clientID, coachID int64) (*domain.ClientPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"client_id",
		"coach_id",
		"plan_type",
		"hybrid_monthly_limit",
	).
		From("client_plans").
		Where(squirrel.Eq{"client_id": clientID, "coach_id": coachID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPlan - build select query: %w", ErrBuildQuery, err)
	}

	var plan domain.ClientPlan
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&plan.ClientID,
		&plan.CoachID,
		&plan.PlanType,
		&plan.HybridMonthlyLimit,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPlan - scan plan: %w", ErrScanRow, err)
	}

	return &plan, nil
}

// GetPackage получает пакет сессий по ID
func (r *Repository) GetPackage(ctx context.Context, id int64) (*domain.SessionPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(packageColumns...).
		From("session_packages").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackage - build select query: %w", ErrBuildQuery, err)
	}

	pkg, err := scanPackage(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackage - scan package: %w", ErrScanRow, err)
	}

	return pkg, nil
}

// ListUsablePackages получает пакеты клиента у тренера, по которым еще можно бронировать:
// есть остаток и срок действия не истек. Первым идет пакет, истекающий раньше всех
func (r *Repository) ListUsablePackages(ctx context.Context, clientID, coachID int64, now time.Time) ([]*domain.SessionPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(packageColumns...).
		From("session_packages").
		Where(squirrel.Eq{"client_id": clientID, "coach_id": coachID}).
		Where(squirrel.Gt{"remaining_sessions": 0}).
		Where(squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.Gt{"expires_at": now.UTC()},
		}).
		OrderBy("expires_at ASC NULLS LAST", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUsablePackages - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUsablePackages - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	packages := make([]*domain.SessionPackage, 0)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListUsablePackages - scan row: %w", ErrScanRow, err)
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUsablePackages - rows error: %w", ErrScanRow, err)
	}

	return packages, nil
}

// AdjustPackage изменяет остаток пакета на delta
// Остаток никогда не выходит за пределы [0, total_sessions]
func (r *Repository) AdjustPackage(ctx context.Context, id int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("session_packages").
		Set("remaining_sessions", squirrel.Expr("remaining_sessions + ?", delta)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("remaining_sessions + ? BETWEEN 0 AND total_sessions", delta)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AdjustPackage - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AdjustPackage - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AdjustPackage - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPackageBalance
	}

	return nil
}

// GetCounter получает счетчик использования за период
func (r *Repository) GetCounter(ctx context.Context, clientID int64, kind domain.UsageKind, periodStart time.Time) (*domain.UsageCounter, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"client_id",
		"kind",
		"period_start",
		"used",
		"usage_limit",
	).
		From("usage_counters").
		Where(squirrel.Eq{
			"client_id":    clientID,
			"kind":         kind,
			"period_start": periodStart.Format(domain.DateFormat),
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCounter - build select query: %w", ErrBuildQuery, err)
	}

	var counter domain.UsageCounter
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&counter.ClientID,
		&counter.Kind,
		&counter.PeriodStart,
		&counter.Used,
		&counter.Limit,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCounterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCounter - scan counter: %w", ErrScanRow, err)
	}

	return &counter, nil
}

// AdjustCounter изменяет счетчик за период на delta, создавая строку периода при необходимости
// used не опускается ниже нуля
func (r *Repository) AdjustCounter(ctx context.Context, counter *domain.UsageCounter, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	initial := delta
	if initial < 0 {
		initial = 0
	}

	query, args, err := psqlbuilder.Insert("usage_counters").
		Columns("client_id", "kind", "period_start", "used", "usage_limit").
		Values(
			counter.ClientID,
			counter.Kind,
			counter.PeriodStart.Format(domain.DateFormat),
			initial,
			counter.Limit,
		).
		Suffix(
			"ON CONFLICT (client_id, kind, period_start) DO UPDATE "+
				"SET used = GREATEST(usage_counters.used + ?, 0), usage_limit = EXCLUDED.usage_limit",
			delta,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AdjustCounter - build upsert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AdjustCounter - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPackage(row rowScanner) (*domain.SessionPackage, error) {
	var pkg domain.SessionPackage
	var expiresAt sql.NullTime

	err := row.Scan(
		&pkg.ID,
		&pkg.ClientID,
		&pkg.CoachID,
		&pkg.TotalSessions,
		&pkg.RemainingSessions,
		&pkg.SessionDurationMinutes,
		&expiresAt,
		&pkg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		pkg.ExpiresAt = &expiresAt.Time
	}

	return &pkg, nil
}
