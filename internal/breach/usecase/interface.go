// Package usecase defines the breach synchronizer: matching vault entries against the
// breach corpus, persisting deduplicated alerts and toggling their status.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// BreachAlertRepository defines persistence operations for breach alerts.
type BreachAlertRepository interface {
	// Create returns ErrBreachAlertExists if the user already has an alert for the
	// same source and email.
	Create(ctx context.Context, alert *breachDomain.BreachAlert) error

	// GetByID returns ErrBreachAlertNotFound if the alert does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*breachDomain.BreachAlert, error)

	// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*breachDomain.BreachAlert, error)

	// ListByUserID returns the user's alerts, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*breachDomain.BreachAlert, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status breachDomain.Status, updatedAt time.Time) error
}

// CredentialLister reads the vault entries a sync matches against.
type CredentialLister interface {
	ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*vaultDomain.Credential, error)
}

// UserDirectory reads the users a sync runs for.
type UserDirectory interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)
	List(ctx context.Context, offset, limit int) ([]*authDomain.User, error)
}

// BreachUseCase defines the breach synchronizer operations.
type BreachUseCase interface {
	// CheckUserBreaches matches the user's active credentials against the breach
	// corpus and inserts the alerts the user does not have yet.
	CheckUserBreaches(ctx context.Context, userID uuid.UUID) (*breachDomain.CheckResult, error)

	// CheckAllUsersBreaches runs CheckUserBreaches for every user. A failing user is
	// reported through CheckResult.Err and does not stop the batch.
	CheckAllUsersBreaches(ctx context.Context) ([]*breachDomain.CheckResult, error)

	// ToggleBreachResolved flips the alert between pending and resolved.
	ToggleBreachResolved(ctx context.Context, userID, alertID uuid.UUID) (*breachDomain.BreachAlert, error)

	// ToggleBreachDismissed flips the alert between pending and dismissed.
	ToggleBreachDismissed(ctx context.Context, userID, alertID uuid.UUID) (*breachDomain.BreachAlert, error)

	ListAlerts(ctx context.Context, userID uuid.UUID) ([]*breachDomain.BreachAlert, error)
}
