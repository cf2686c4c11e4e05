// Package validation provides the jellydator/validation rules shared by use case inputs.
package validation

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/passvault/internal/errors"
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	recoveryKeyRegex = regexp.MustCompile(`^[A-Z2-9]{4}(-[A-Z2-9]{4}){3}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// MasterPassword enforces a minimum length and character mix on master passwords.
// It never inspects or reports the password beyond the failed requirement.
type MasterPassword struct {
	MinLength     int
	RequireLetter bool
	RequireNumber bool
}

// DefaultMasterPassword is the rule applied at signup, password change and reset.
var DefaultMasterPassword = MasterPassword{MinLength: 8, RequireLetter: true, RequireNumber: true}

// Validate implements validation.Rule.
func (p MasterPassword) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_master_password_type", "must be a string")
	}
	if s == "" {
		return nil
	}

	if len([]rune(s)) < p.MinLength {
		return validation.NewError(
			"validation_master_password_length",
			"must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}
	if p.RequireLetter && !strings.ContainsFunc(s, unicode.IsLetter) {
		return validation.NewError("validation_master_password_letter", "must contain at least one letter")
	}
	if p.RequireNumber && !strings.ContainsFunc(s, unicode.IsNumber) {
		return validation.NewError("validation_master_password_number", "must contain at least one number")
	}
	return nil
}

// Email validates email format.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Hex validates lowercase or uppercase hexadecimal data.
var Hex = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := hex.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_hex", "must be valid hex-encoded data"),
)

// RecoveryKeyFormat validates the XXXX-XXXX-XXXX-XXXX shape. Input is upper-cased by
// callers before validation.
var RecoveryKeyFormat = validation.NewStringRuleWithError(
	func(s string) bool {
		return recoveryKeyRegex.MatchString(s)
	},
	validation.NewError("validation_recovery_key_format", "must match XXXX-XXXX-XXXX-XXXX"),
)

// NotNilUUID rejects the zero UUID, which Required cannot detect on a fixed-size array.
var NotNilUUID = validation.By(func(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a UUID")
	}
	if id == uuid.Nil {
		return validation.NewError("validation_uuid_required", "cannot be blank")
	}
	return nil
})
