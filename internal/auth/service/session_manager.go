// Package service provides the in-process services of the account domain.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

const (
	sessionShardCount = 16
	sessionTokenBytes = 32
)

// SessionConfig holds session store configuration.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	MaxActive     int
}

// DefaultSessionConfig returns a 90-day idle timeout swept daily.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		IdleTimeout:   90 * 24 * time.Hour,
		SweepInterval: 24 * time.Hour,
		MaxActive:     100000,
	}
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[string]*authDomain.Session
}

// SessionManager is a bounded, sharded in-memory session store.
//
// Each token hashes to one of sixteen shards guarded by its own RWMutex, so operations
// on different tokens rarely contend. Validate slides LastActivity forward. Idle
// sessions are rejected on access and purged by Sweep, which Start runs periodically.
// When a shard is full the least recently active session in it is evicted.
type SessionManager struct {
	shards        [sessionShardCount]*sessionShard
	idleTimeout   time.Duration
	sweepInterval time.Duration
	maxPerShard   int
	now           func() time.Time
	logger        *slog.Logger
}

// NewSessionManager creates an empty SessionManager.
func NewSessionManager(config SessionConfig, logger *slog.Logger) *SessionManager {
	defaults := DefaultSessionConfig()
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaults.SweepInterval
	}
	if config.MaxActive <= 0 {
		config.MaxActive = defaults.MaxActive
	}

	maxPerShard := config.MaxActive / sessionShardCount
	if maxPerShard < 1 {
		maxPerShard = 1
	}

	m := &SessionManager{
		idleTimeout:   config.IdleTimeout,
		sweepInterval: config.SweepInterval,
		maxPerShard:   maxPerShard,
		now:           time.Now,
		logger:        logger,
	}
	for i := range m.shards {
		m.shards[i] = &sessionShard{sessions: make(map[string]*authDomain.Session)}
	}
	return m
}

func (m *SessionManager) shard(token string) *sessionShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return m.shards[h.Sum32()%sessionShardCount]
}

// Create opens a session for userID and returns it. The session ID is the token.
func (m *SessionManager) Create(userID uuid.UUID) (*authDomain.Session, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrRandomSource, err)
	}
	token := hex.EncodeToString(raw)

	now := m.now()
	session := &authDomain.Session{
		ID:           token,
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
	}

	shard := m.shard(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if len(shard.sessions) >= m.maxPerShard {
		m.evictLocked(shard, now)
	}
	shard.sessions[token] = session

	// Callers get a copy so that later refreshes do not race with their reads.
	out := *session
	return &out, nil
}

// evictLocked drops expired sessions from a full shard and, if it is still full, the
// least recently active one. shard.mu must be held.
func (m *SessionManager) evictLocked(shard *sessionShard, now time.Time) {
	var oldestToken string
	var oldest time.Time
	for token, s := range shard.sessions {
		if s.Expired(now, m.idleTimeout) {
			delete(shard.sessions, token)
			continue
		}
		if oldestToken == "" || s.LastActivity.Before(oldest) {
			oldestToken = token
			oldest = s.LastActivity
		}
	}

	if len(shard.sessions) >= m.maxPerShard && oldestToken != "" {
		delete(shard.sessions, oldestToken)
		if m.logger != nil {
			m.logger.Warn("session store full, evicted least recently active session")
		}
	}
}

// Validate returns the owner of token and refreshes its activity time. Unknown and
// idle-expired tokens return false; expired ones are removed.
func (m *SessionManager) Validate(token string) (uuid.UUID, bool) {
	if token == "" {
		return uuid.Nil, false
	}

	shard := m.shard(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	session, ok := shard.sessions[token]
	if !ok {
		return uuid.Nil, false
	}

	now := m.now()
	if session.Expired(now, m.idleTimeout) {
		delete(shard.sessions, token)
		return uuid.Nil, false
	}

	session.LastActivity = now
	return session.UserID, true
}

// Get returns a copy of the session without refreshing it.
func (m *SessionManager) Get(token string) (*authDomain.Session, bool) {
	shard := m.shard(token)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	session, ok := shard.sessions[token]
	if !ok {
		return nil, false
	}
	out := *session
	return &out, true
}

// Refresh bumps the activity time of token. Missing tokens are ignored.
func (m *SessionManager) Refresh(token string) {
	shard := m.shard(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if session, ok := shard.sessions[token]; ok {
		session.LastActivity = m.now()
	}
}

// Destroy removes token. Missing tokens are ignored.
func (m *SessionManager) Destroy(token string) {
	shard := m.shard(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.sessions, token)
}

// DestroyUser removes every session owned by userID and returns how many were removed.
func (m *SessionManager) DestroyUser(userID uuid.UUID) int {
	removed := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		for token, s := range shard.sessions {
			if s.UserID == userID {
				delete(shard.sessions, token)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}

// Count returns the number of sessions currently held, expired or not.
func (m *SessionManager) Count() int {
	total := 0
	for _, shard := range m.shards {
		shard.mu.RLock()
		total += len(shard.sessions)
		shard.mu.RUnlock()
	}
	return total
}

// Sweep removes idle-expired sessions, locking one shard at a time, and returns how
// many were removed.
func (m *SessionManager) Sweep() int {
	now := m.now()
	removed := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		for token, s := range shard.sessions {
			if s.Expired(now, m.idleTimeout) {
				delete(shard.sessions, token)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}

// Start runs Sweep every sweep interval until ctx is cancelled.
func (m *SessionManager) Start(ctx context.Context) error {
	if m.logger != nil {
		m.logger.Info("starting session sweeper",
			slog.Duration("interval", m.sweepInterval),
			slog.Duration("idle_timeout", m.idleTimeout),
		)
	}

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if m.logger != nil {
				m.logger.Info("stopping session sweeper")
			}
			return ctx.Err()
		case <-ticker.C:
			removed := m.Sweep()
			if m.logger != nil && removed > 0 {
				m.logger.Info("swept expired sessions", slog.Int("removed", removed))
			}
		}
	}
}
