// Package repository implements breach alert persistence for PostgreSQL and MySQL.
package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	apperrors "github.com/allisson/passvault/internal/errors"
)

const alertColumns = `id, user_id, credential_id, affected_email, breach_source, breach_date, affected_data,
	severity, status, created_at, updated_at`

// encodeAffectedData stores the leaked data classes as a JSON array.
func encodeAffectedData(classes []string) (string, error) {
	if classes == nil {
		classes = []string{}
	}
	data, err := json.Marshal(classes)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode affected data")
	}
	return string(data), nil
}

func decodeAffectedData(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var classes []string
	if err := json.Unmarshal([]byte(data), &classes); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode affected data")
	}
	return classes, nil
}

// nullDate maps the zero time of an undated breach to NULL.
func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// applyScanned fills the fields shared by both dialects after a row scan.
func applyScanned(
	alert *breachDomain.BreachAlert,
	breachDate sql.NullTime,
	affectedData, severity, status string,
) error {
	classes, err := decodeAffectedData(affectedData)
	if err != nil {
		return err
	}
	if breachDate.Valid {
		alert.BreachDate = breachDate.Time
	}
	alert.AffectedData = classes
	alert.Severity = breachDomain.Severity(severity)
	alert.Status = breachDomain.Status(status)
	return nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return breachDomain.ErrBreachAlertNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
