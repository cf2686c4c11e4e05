package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryCredentialRepository is an in-memory CredentialRepository.
type memoryCredentialRepository struct {
	mu          sync.Mutex
	credentials map[uuid.UUID]vaultDomain.Credential
	lockedUsers []uuid.UUID
}

func newMemoryCredentialRepository() *memoryCredentialRepository {
	return &memoryCredentialRepository{credentials: make(map[uuid.UUID]vaultDomain.Credential)}
}

func (r *memoryCredentialRepository) Create(ctx context.Context, cred *vaultDomain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credentials[cred.ID] = *cred
	return nil
}

func (r *memoryCredentialRepository) Update(ctx context.Context, cred *vaultDomain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.credentials[cred.ID]
	if !ok {
		return vaultDomain.ErrCredentialNotFound
	}
	updated := *cred
	updated.Has2FA = stored.Has2FA
	r.credentials[cred.ID] = updated
	return nil
}

func (r *memoryCredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*vaultDomain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.credentials[id]
	if !ok {
		return nil, vaultDomain.ErrCredentialNotFound
	}
	return &cred, nil
}

func (r *memoryCredentialRepository) ListActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*vaultDomain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	creds := make([]*vaultDomain.Credential, 0)
	for _, cred := range r.credentials {
		if cred.UserID == userID && cred.IsActive() {
			creds = append(creds, &cred)
		}
	}
	return creds, nil
}

func (r *memoryCredentialRepository) CountByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	excludeID uuid.UUID,
) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, cred := range r.credentials {
		if r.sharesPayload(cred, userID, payload) && cred.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (r *memoryCredentialRepository) SetReusedByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	reused bool,
	updatedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cred := range r.credentials {
		if r.sharesPayload(cred, userID, payload) {
			cred.PasswordReused = reused
			cred.UpdatedAt = updatedAt
			r.credentials[id] = cred
		}
	}
	return nil
}

func (r *memoryCredentialRepository) sharesPayload(
	cred vaultDomain.Credential,
	userID uuid.UUID,
	payload vaultDomain.Payload,
) bool {
	return cred.UserID == userID && cred.IsActive() && cred.IsPasswordBearing() && cred.Payload == payload
}

func (r *memoryCredentialRepository) SetHas2FA(
	ctx context.Context,
	id uuid.UUID,
	has2FA bool,
	updatedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.credentials[id]
	if !ok {
		return vaultDomain.ErrCredentialNotFound
	}
	cred.Has2FA = has2FA
	cred.UpdatedAt = updatedAt
	r.credentials[id] = cred
	return nil
}

func (r *memoryCredentialRepository) LockOwner(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedUsers = append(r.lockedUsers, userID)
	return nil
}

func (r *memoryCredentialRepository) get(id uuid.UUID) vaultDomain.Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.credentials[id]
}

// memoryTotpRepository is an in-memory TotpRepository.
type memoryTotpRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]vaultDomain.TotpSecret
}

func newMemoryTotpRepository() *memoryTotpRepository {
	return &memoryTotpRepository{secrets: make(map[uuid.UUID]vaultDomain.TotpSecret)}
}

func (r *memoryTotpRepository) Create(ctx context.Context, totp *vaultDomain.TotpSecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.secrets {
		if s.CredentialID == totp.CredentialID {
			return vaultDomain.ErrTotpAlreadyExists
		}
	}
	r.secrets[totp.ID] = *totp
	return nil
}

func (r *memoryTotpRepository) GetByCredentialID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*vaultDomain.TotpSecret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.secrets {
		if s.CredentialID == credentialID {
			return &s, nil
		}
	}
	return nil, vaultDomain.ErrTotpNotFound
}

func (r *memoryTotpRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	state vaultDomain.TotpState,
	updatedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.secrets[id]
	if !ok {
		return vaultDomain.ErrTotpNotFound
	}
	s.State = state
	s.UpdatedAt = updatedAt
	r.secrets[id] = s
	return nil
}

func (r *memoryTotpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.secrets[id]; !ok {
		return vaultDomain.ErrTotpNotFound
	}
	delete(r.secrets, id)
	return nil
}
