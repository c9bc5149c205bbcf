package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

// Repository репозиторий настроек бронирования тренеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCoachID получает настройки тренера
func (r *Repository) GetByCoachID(ctx context.Context, coachID int64) (*domain.CoachBookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"coach_id",
		"booking_window_days",
		"min_notice_hours",
		"renewal_reminder_threshold",
		"session_duration_minutes",
		"checkin_duration_minutes",
		"time_zone",
		"coach_cancel_bypasses_notice",
		"created_at",
		"updated_at",
	).
		From("coach_booking_settings").
		Where(squirrel.Eq{"coach_id": coachID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCoachID - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.CoachBookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.CoachID,
		&s.BookingWindowDays,
		&s.MinNoticeHours,
		&s.RenewalReminderThreshold,
		&s.SessionDurationMinutes,
		&s.CheckinDurationMinutes,
		&s.TimeZone,
		&s.CoachCancelBypassesNotice,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCoachID - scan settings: %w", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или полностью перезаписывает настройки тренера
func (r *Repository) Upsert(ctx context.Context, s *domain.CoachBookingSettings) (*domain.CoachBookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("coach_booking_settings").
		Columns(
			"coach_id",
			"booking_window_days",
			"min_notice_hours",
			"renewal_reminder_threshold",
			"session_duration_minutes",
			"checkin_duration_minutes",
			"time_zone",
			"coach_cancel_bypasses_notice",
		).
		Values(
			s.CoachID,
			s.BookingWindowDays,
			s.MinNoticeHours,
			s.RenewalReminderThreshold,
			s.SessionDurationMinutes,
			s.CheckinDurationMinutes,
			s.TimeZone,
			s.CoachCancelBypassesNotice,
		).
		Suffix(`ON CONFLICT (coach_id) DO UPDATE SET
			booking_window_days = EXCLUDED.booking_window_days,
			min_notice_hours = EXCLUDED.min_notice_hours,
			renewal_reminder_threshold = EXCLUDED.renewal_reminder_threshold,
			session_duration_minutes = EXCLUDED.session_duration_minutes,
			checkin_duration_minutes = EXCLUDED.checkin_duration_minutes,
			time_zone = EXCLUDED.time_zone,
			coach_cancel_bypasses_notice = EXCLUDED.coach_cancel_bypasses_notice,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
