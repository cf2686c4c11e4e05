package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryAlertRepository is an in-memory BreachAlertRepository enforcing the
// (user, source, email) unique key.
type memoryAlertRepository struct {
	mu     sync.Mutex
	alerts []breachDomain.BreachAlert
	// hideFromList simulates alerts inserted by a concurrent sync after the list.
	hideFromList bool
	lockedIDs    []uuid.UUID
}

func (r *memoryAlertRepository) Create(ctx context.Context, alert *breachDomain.BreachAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.UserID == alert.UserID && existing.Key() == alert.Key() {
			return breachDomain.ErrBreachAlertExists
		}
	}
	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *memoryAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*breachDomain.BreachAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ID == id {
			return &alert, nil
		}
	}
	return nil, breachDomain.ErrBreachAlertNotFound
}

func (r *memoryAlertRepository) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	r.mu.Lock()
	r.lockedIDs = append(r.lockedIDs, id)
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *memoryAlertRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*breachDomain.BreachAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideFromList {
		return nil, nil
	}
	var alerts []*breachDomain.BreachAlert
	for _, alert := range r.alerts {
		if alert.UserID == userID {
			alerts = append(alerts, &alert)
		}
	}
	return alerts, nil
}

func (r *memoryAlertRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status breachDomain.Status,
	updatedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Status = status
			r.alerts[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return breachDomain.ErrBreachAlertNotFound
}

func (r *memoryAlertRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

type stubCredentials struct {
	byUser map[uuid.UUID][]*vaultDomain.Credential
	errs   map[uuid.UUID]error
}

func (s *stubCredentials) ListActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*vaultDomain.Credential, error) {
	if err := s.errs[userID]; err != nil {
		return nil, err
	}
	return s.byUser[userID], nil
}

type stubUsers struct {
	users []*authDomain.User
}

func (s *stubUsers) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, authDomain.ErrUserNotFound
}

func (s *stubUsers) List(ctx context.Context, offset, limit int) ([]*authDomain.User, error) {
	if offset >= len(s.users) {
		return nil, nil
	}
	end := min(offset+limit, len(s.users))
	return s.users[offset:end], nil
}

type stubProvider struct {
	mu       sync.Mutex
	breaches []breachDomain.Breach
	err      error
	calls    int
}

func (s *stubProvider) GetAllBreaches(ctx context.Context) ([]breachDomain.Breach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.breaches, nil
}
