package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	quotaRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/quota"
	"github.com/m04kA/SMC-CoachBookingService/internal/service/quota/models"
)

// Service определяет, сколько еще бронирований клиент может сделать, и списывает/возвращает квоту
//
// Источники квоты:
//   - checkin: одна консультация в месяц (бинарно, 1 или 0)
//   - session при плане training: остаток активного пакета сессий
//   - session при плане hybrid: месячный лимит минус использовано
//
// Resolve, Consume и Refund рассчитаны на вызов внутри транзакции бронирования:
// репозиторий блокирует прочитанные строки до коммита
type Service struct {
	repo         QuotaRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса квот
func NewService(repo QuotaRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Resolve вычисляет актуальный остаток квоты
// packageID указывает конкретный пакет; без него берется пакет, который истекает раньше всех
func (s *Service) Resolve(
	ctx context.Context,
	clientID, coachID int64,
	bookingType domain.BookingType,
	packageID *int64,
) (*domain.QuotaBalance, error) {
	now := s.timeProvider.Now()
	balance := &domain.QuotaBalance{
		ClientID:    clientID,
		CoachID:     coachID,
		BookingType: bookingType,
	}

	if bookingType == domain.BookingTypeCheckin {
		counter, err := s.counter(ctx, clientID, domain.UsageCheckin, domain.PeriodStart(now), domain.CheckinMonthlyLimit)
		if err != nil {
			return nil, err
		}
		balance.Source = domain.QuotaSourceCheckin
		balance.Counter = counter
		balance.Remaining = counter.Remaining()
		return balance, nil
	}

	plan, err := s.repo.GetPlan(ctx, clientID, coachID)
	if err != nil && !errors.Is(err, quotaRepo.ErrPlanNotFound) {
		return nil, fmt.Errorf("%w: Resolve - get plan: %w", ErrInternal, err)
	}

	// Без плана клиент бронирует по пакетам
	if plan != nil && plan.PlanType == domain.PlanHybrid {
		counter, err := s.counter(ctx, clientID, domain.UsageHybrid, domain.PeriodStart(now), plan.HybridMonthlyLimit)
		if err != nil {
			return nil, err
		}
		balance.Source = domain.QuotaSourceHybrid
		balance.Counter = counter
		balance.Remaining = counter.Remaining()
		return balance, nil
	}

	balance.Source = domain.QuotaSourcePackage

	pkg, err := s.activePackage(ctx, clientID, coachID, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return balance, nil
	}

	balance.Package = pkg
	// Истекший пакет не дает новых бронирований, уже сделанные остаются в силе
	if !pkg.IsExpired(now) {
		balance.Remaining = pkg.RemainingSessions
	}

	return balance, nil
}

// Consume списывает n единиц с источника, по которому вычислен balance
func (s *Service) Consume(ctx context.Context, balance *domain.QuotaBalance, n int) error {
	if n <= 0 {
		return nil
	}
	if n > balance.Remaining {
		return domain.ErrQuotaExhausted
	}

	switch balance.Source {
	case domain.QuotaSourcePackage:
		if balance.Package == nil {
			return domain.ErrQuotaExhausted
		}
		if err := s.repo.AdjustPackage(ctx, balance.Package.ID, -n); err != nil {
			if errors.Is(err, quotaRepo.ErrPackageBalance) {
				return domain.ErrQuotaExhausted
			}
			return fmt.Errorf("%w: Consume - adjust package id=%d: %w", ErrInternal, balance.Package.ID, err)
		}
		balance.Package.RemainingSessions -= n

	case domain.QuotaSourceHybrid, domain.QuotaSourceCheckin:
		if err := s.repo.AdjustCounter(ctx, balance.Counter, n); err != nil {
			return fmt.Errorf("%w: Consume - adjust %s counter: %w", ErrInternal, balance.Counter.Kind, err)
		}
		balance.Counter.Used += n

	default:
		return fmt.Errorf("%w: Consume - unknown quota source %q", ErrInternal, balance.Source)
	}

	balance.Remaining -= n
	return nil
}

// Refund возвращает ровно одну единицу в источник, с которого бронирование списало квоту
// Счетчики возвращаются в период, в котором бронирование было создано
func (s *Service) Refund(ctx context.Context, booking *domain.Booking) error {
	switch booking.QuotaSource {
	case domain.QuotaSourcePackage:
		if booking.PackageID == nil {
			s.logger.Warn("Refund: booking id=%d has package source without package", booking.ID)
			return nil
		}
		err := s.repo.AdjustPackage(ctx, *booking.PackageID, 1)
		if errors.Is(err, quotaRepo.ErrPackageBalance) {
			s.logger.Warn("Refund: package id=%d is already full, booking id=%d", *booking.PackageID, booking.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: Refund - adjust package id=%d: %w", ErrInternal, *booking.PackageID, err)
		}
		return nil

	case domain.QuotaSourceHybrid, domain.QuotaSourceCheckin:
		kind := domain.UsageHybrid
		if booking.QuotaSource == domain.QuotaSourceCheckin {
			kind = domain.UsageCheckin
		}

		counter, err := s.repo.GetCounter(ctx, booking.ClientID, kind, domain.PeriodStart(booking.CreatedAt))
		if errors.Is(err, quotaRepo.ErrCounterNotFound) {
			s.logger.Warn("Refund: no %s counter for booking id=%d", kind, booking.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: Refund - get %s counter: %w", ErrInternal, kind, err)
		}

		if err := s.repo.AdjustCounter(ctx, counter, -1); err != nil {
			return fmt.Errorf("%w: Refund - adjust %s counter: %w", ErrInternal, kind, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: Refund - unknown quota source %q", ErrInternal, booking.QuotaSource)
	}
}

// GetQuota справочный остаток квоты для клиента или его тренера
func (s *Service) GetQuota(ctx context.Context, req *models.GetQuotaRequest) (*models.QuotaResponse, error) {
	s.logger.Info("GetQuota: client=%d coach=%d type=%s by user=%d", req.ClientID, req.CoachID, req.BookingType, req.UserID)

	if req.UserID != req.ClientID && req.UserID != req.CoachID {
		s.logger.Warn("GetQuota: user=%d has no access to client=%d quota", req.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}
	if !req.BookingType.IsValid() {
		return nil, fmt.Errorf("%w: unknown booking type %q", domain.ErrInvalidInput, req.BookingType)
	}

	balance, err := s.Resolve(ctx, req.ClientID, req.CoachID, req.BookingType, req.PackageID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("GetQuota: failed to resolve quota for client=%d: %v", req.ClientID, err)
		}
		return nil, err
	}

	return models.FromDomainBalance(balance), nil
}

func (s *Service) activePackage(ctx context.Context, clientID, coachID int64, packageID *int64) (*domain.SessionPackage, error) {
	if packageID != nil {
		pkg, err := s.repo.GetPackage(ctx, *packageID)
		if errors.Is(err, quotaRepo.ErrPackageNotFound) {
			return nil, fmt.Errorf("%w: package id=%d", domain.ErrNotFound, *packageID)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: get package id=%d: %w", ErrInternal, *packageID, err)
		}
		if pkg.ClientID != clientID || pkg.CoachID != coachID {
			return nil, fmt.Errorf("%w: package id=%d does not belong to client", domain.ErrNotFound, *packageID)
		}
		return pkg, nil
	}

	packages, err := s.repo.ListUsablePackages(ctx, clientID, coachID, s.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: list packages: %w", ErrInternal, err)
	}
	if len(packages) == 0 {
		return nil, nil
	}
	return packages[0], nil
}

func (s *Service) counter(ctx context.Context, clientID int64, kind domain.UsageKind, period time.Time, limit int) (*domain.UsageCounter, error) {
	counter, err := s.repo.GetCounter(ctx, clientID, kind, period)
	if errors.Is(err, quotaRepo.ErrCounterNotFound) {
		counter = &domain.UsageCounter{ClientID: clientID, Kind: kind, PeriodStart: period}
	} else if err != nil {
		return nil, fmt.Errorf("%w: get %s counter: %w", ErrInternal, kind, err)
	}

	// Лимит берется из актуального плана
	counter.Limit = limit
	return counter, nil
}
