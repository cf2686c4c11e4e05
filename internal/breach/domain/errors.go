package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Breach errors.
var (
	// ErrBreachAlertNotFound indicates the alert does not exist.
	ErrBreachAlertNotFound = errors.Wrap(errors.ErrNotFound, "breach alert not found")

	// ErrBreachAlertAccessDenied indicates the alert belongs to another user.
	ErrBreachAlertAccessDenied = errors.Wrap(errors.ErrForbidden, "breach alert belongs to another user")

	// ErrBreachAlertExists indicates an alert for the same source and email already
	// exists for the user.
	ErrBreachAlertExists = errors.Wrap(errors.ErrConflict, "breach alert already exists")

	// ErrProviderRateLimited indicates the breach provider throttled the request.
	ErrProviderRateLimited = errors.Wrap(errors.ErrRateLimited, "breach provider rate limited")

	// ErrProviderFailure indicates the breach provider failed or timed out.
	ErrProviderFailure = errors.Wrap(errors.ErrProvider, "breach provider failure")
)
