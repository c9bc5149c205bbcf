// Package memory is an in-memory implementation of the storage repositories.
// Transactions are serialized and rolled back from a snapshot, which is enough to
// exercise the booking use cases without PostgreSQL.
//
// It is a test double for the use case and service tests. It has no durability
// and is not meant to be wired into cmd/; production uses the Postgres repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/quota"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/settings"
)

type counterKey struct {
	clientID int64
	kind     domain.UsageKind
	period   string
}

type planKey struct {
	clientID int64
	coachID  int64
}

type state struct {
	nextID    int64
	bookings  map[int64]domain.Booking
	templates map[int64]domain.AvailabilityTemplate
	overrides map[int64]domain.AvailabilityOverride
	plans     map[planKey]domain.ClientPlan
	packages  map[int64]domain.SessionPackage
	counters  map[counterKey]domain.UsageCounter
	settings  map[int64]domain.CoachBookingSettings
}

func (s *state) clone() *state {
	c := &state{
		nextID:    s.nextID,
		bookings:  make(map[int64]domain.Booking, len(s.bookings)),
		templates: make(map[int64]domain.AvailabilityTemplate, len(s.templates)),
		overrides: make(map[int64]domain.AvailabilityOverride, len(s.overrides)),
		plans:     make(map[planKey]domain.ClientPlan, len(s.plans)),
		packages:  make(map[int64]domain.SessionPackage, len(s.packages)),
		counters:  make(map[counterKey]domain.UsageCounter, len(s.counters)),
		settings:  make(map[int64]domain.CoachBookingSettings, len(s.settings)),
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.overrides {
		c.overrides[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.packages {
		c.packages[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	return c
}

// Store in-memory хранилище всех сущностей сервиса
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{st: (&state{}).clone()}
}

// Do выполняет fn атомарно: транзакции идут строго по очереди, при ошибке состояние откатывается
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// DoSerializable то же, что Do
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// DoReadOnly то же, что Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Bookings

// Create сохраняет бронирование
func (s *Store) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.id()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = b.CreatedAt
	s.st.bookings[b.ID] = *b
	return b, nil
}

// GetByID возвращает бронирование
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.st.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

// List возвращает бронирования по фильтру
func (s *Store) List(_ context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.st.bookings {
		if f.CoachID != nil && b.CoachID != *f.CoachID {
			continue
		}
		if f.ClientID != nil && b.ClientID != *f.ClientID {
			continue
		}
		if f.BookingType != nil && b.BookingType != *f.BookingType {
			continue
		}
		if f.To != nil && !b.StartsAt.Before(*f.To) {
			continue
		}
		if f.From != nil && !b.EndsAt.After(*f.From) {
			continue
		}
		if !f.IncludeInactive && !b.IsActive() {
			continue
		}
		if f.ExcludeID != nil && b.ID == *f.ExcludeID {
			continue
		}
		b := b
		result = append(result, &b)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartsAt.Before(result[j].StartsAt)
	})
	return result, nil
}

// UpdateSlot переносит активное бронирование
func (s *Store) UpdateSlot(_ context.Context, id int64, slot domain.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.st.bookings[id]
	if !ok || !b.IsActive() {
		return booking.ErrBookingNotActive
	}
	b.StartsAt, b.EndsAt = slot.StartsAt, slot.EndsAt
	s.st.bookings[id] = b
	return nil
}

// Cancel отменяет активное бронирование
func (s *Store) Cancel(_ context.Context, id int64, by domain.Actor, reason *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.st.bookings[id]
	if !ok || !b.IsActive() {
		return booking.ErrBookingNotActive
	}
	b.Status = domain.StatusCancelled
	b.CancelledBy = &by
	b.CancellationReason = reason
	b.CancelledAt = &at
	s.st.bookings[id] = b
	return nil
}

// LockCoach транзакции и так сериализованы
func (s *Store) LockCoach(context.Context, int64) error { return nil }

// LockClient транзакции и так сериализованы
func (s *Store) LockClient(context.Context, int64) error { return nil }

// Availability

// CreateTemplate сохраняет шаблон
func (s *Store) CreateTemplate(_ context.Context, t *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.id()
	s.st.templates[t.ID] = *t
	return t, nil
}

// ListTemplates возвращает шаблоны по фильтру
func (s *Store) ListTemplates(_ context.Context, f domain.AvailabilityFilter) ([]*domain.AvailabilityTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.AvailabilityTemplate, 0)
	for _, t := range s.st.templates {
		if t.CoachID != f.CoachID {
			continue
		}
		if f.BookingType != nil && t.BookingType != *f.BookingType {
			continue
		}
		if f.DayOfWeek != nil && t.DayOfWeek != *f.DayOfWeek {
			continue
		}
		t := t
		result = append(result, &t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteTemplate удаляет шаблон тренера
func (s *Store) DeleteTemplate(_ context.Context, coachID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.st.templates[id]
	if !ok || t.CoachID != coachID {
		return availability.ErrTemplateNotFound
	}
	delete(s.st.templates, id)
	return nil
}

// CreateOverride сохраняет исключение
func (s *Store) CreateOverride(_ context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.id()
	s.st.overrides[o.ID] = *o
	return o, nil
}

// ListOverrides возвращает исключения по фильтру
func (s *Store) ListOverrides(_ context.Context, f domain.AvailabilityFilter) ([]*domain.AvailabilityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.AvailabilityOverride, 0)
	for _, o := range s.st.overrides {
		if o.CoachID != f.CoachID {
			continue
		}
		if f.BookingType != nil && o.BookingType != *f.BookingType {
			continue
		}
		day := o.Date.Format(domain.DateFormat)
		if f.From != nil && day < f.From.Format(domain.DateFormat) {
			continue
		}
		if f.To != nil && day > f.To.Format(domain.DateFormat) {
			continue
		}
		o := o
		result = append(result, &o)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteOverride удаляет исключение тренера
func (s *Store) DeleteOverride(_ context.Context, coachID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.st.overrides[id]
	if !ok || o.CoachID != coachID {
		return availability.ErrOverrideNotFound
	}
	delete(s.st.overrides, id)
	return nil
}

// Quota

// PutPlan сохраняет план клиента
func (s *Store) PutPlan(plan domain.ClientPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.plans[planKey{plan.ClientID, plan.CoachID}] = plan
}

// PutPackage сохраняет пакет сессий и возвращает его ID
func (s *Store) PutPackage(pkg domain.SessionPackage) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg.ID = s.id()
	s.st.packages[pkg.ID] = pkg
	return pkg.ID
}

// GetPlan возвращает план клиента
func (s *Store) GetPlan(_ context.Context, clientID, coachID int64) (*domain.ClientPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.plans[planKey{clientID, coachID}]
	if !ok {
		return nil, quota.ErrPlanNotFound
	}
	return &p, nil
}

// GetPackage возвращает пакет
func (s *Store) GetPackage(_ context.Context, id int64) (*domain.SessionPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.packages[id]
	if !ok {
		return nil, quota.ErrPackageNotFound
	}
	return &p, nil
}

// ListUsablePackages возвращает пакеты с остатком и без истекшего срока
func (s *Store) ListUsablePackages(_ context.Context, clientID, coachID int64, now time.Time) ([]*domain.SessionPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.SessionPackage, 0)
	for _, p := range s.st.packages {
		if p.ClientID != clientID || p.CoachID != coachID || p.RemainingSessions <= 0 || p.IsExpired(now) {
			continue
		}
		p := p
		result = append(result, &p)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].ExpiresAt, result[j].ExpiresAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		default:
			return result[i].ID < result[j].ID
		}
	})
	return result, nil
}

// AdjustPackage меняет остаток пакета в пределах [0, total]
func (s *Store) AdjustPackage(_ context.Context, id int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.st.packages[id]
	if !ok {
		return quota.ErrPackageBalance
	}
	next := p.RemainingSessions + delta
	if next < 0 || next > p.TotalSessions {
		return quota.ErrPackageBalance
	}
	p.RemainingSessions = next
	s.st.packages[id] = p
	return nil
}

// GetCounter возвращает счетчик за период
func (s *Store) GetCounter(_ context.Context, clientID int64, kind domain.UsageKind, periodStart time.Time) (*domain.UsageCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.st.counters[counterKey{clientID, kind, periodStart.Format(domain.DateFormat)}]
	if !ok {
		return nil, quota.ErrCounterNotFound
	}
	return &c, nil
}

// AdjustCounter меняет счетчик за период, не опуская его ниже нуля
func (s *Store) AdjustCounter(_ context.Context, counter *domain.UsageCounter, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := counterKey{counter.ClientID, counter.Kind, counter.PeriodStart.Format(domain.DateFormat)}
	c, ok := s.st.counters[key]
	if !ok {
		c = domain.UsageCounter{ClientID: counter.ClientID, Kind: counter.Kind, PeriodStart: counter.PeriodStart}
	}
	c.Limit = counter.Limit
	c.Used += delta
	if c.Used < 0 {
		c.Used = 0
	}
	s.st.counters[key] = c
	return nil
}

// Settings

// GetByCoachID возвращает настройки тренера
func (s *Store) GetByCoachID(_ context.Context, coachID int64) (*domain.CoachBookingSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.st.settings[coachID]
	if !ok {
		return nil, settings.ErrSettingsNotFound
	}
	return &v, nil
}

// Upsert сохраняет настройки тренера
func (s *Store) Upsert(_ context.Context, v *domain.CoachBookingSettings) (*domain.CoachBookingSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.settings[v.CoachID] = *v
	return v, nil
}
