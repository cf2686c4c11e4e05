// Package domain defines breach alerts raised when a vault entry matches a publicly
// disclosed breach.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity ranks how sensitive the leaked data classes are.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status is the triage state of an alert.
type Status string

const (
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Breach is one entry of the external breach corpus.
type Breach struct {
	Name        string
	Title       string
	Domain      string
	BreachDate  time.Time
	DataClasses []string
}

// BreachAlert links a user (and optionally the credential that matched) to a breach.
// (BreachSource, AffectedEmail) is unique per user.
type BreachAlert struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CredentialID  *uuid.UUID
	AffectedEmail string
	BreachSource  string
	BreachDate    time.Time
	AffectedData  []string
	Severity      Severity
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key returns the per-user deduplication key of the alert.
func (a *BreachAlert) Key() string {
	return AlertKey(a.BreachSource, a.AffectedEmail)
}

// AlertKey builds the deduplication key for a breach source and email.
func AlertKey(source, email string) string {
	return strings.ToLower(source) + "\x00" + strings.ToLower(email)
}

// Toggle flips the alert between pending and target. An alert in the other
// non-pending state moves straight to target.
func (a *BreachAlert) Toggle(target Status) {
	if a.Status == target {
		a.Status = StatusPending
		return
	}
	a.Status = target
}

// CheckResult summarizes one breach sync for a user. Err is set only in batch results
// for users whose sync failed.
type CheckResult struct {
	UserID        uuid.UUID
	NewBreaches   int
	TotalBreaches int
	Err           error
}
