// Package sqlerr handles database driver errors.
//
// It parses SQLSTATE codes from the Postgres driver and converts them into
// user-friendly application errors (e.g. a unique violation becomes a
// Bad Request with an "already exists" message).
package sqlerr

import (
	"errors"
	"fmt"
)

// Code classifies a database error into the categories the application
// cares about.
type Code int

const (
	// Other covers everything not explicitly mapped.
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

// Postgres SQLSTATE codes for integrity constraint violations.
const (
	sqlstateNotNullViolation    = "23502"
	sqlstateForeignKeyViolation = "23503"
	sqlstateUniqueViolation     = "23505"
	sqlstateCheckViolation      = "23514"
)

// MapCode maps a raw SQLSTATE string to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case sqlstateUniqueViolation:
		return UniqueViolation
	case sqlstateForeignKeyViolation:
		return ForeignKeyViolation
	case sqlstateNotNullViolation:
		return NotNullViolation
	case sqlstateCheckViolation:
		return CheckViolation
	default:
		return Other
	}
}

// Severity mirrors the severity field reported by the Postgres server.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityWarning
	SeverityNotice
)

// MapSeverity maps the server's severity string to a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	default:
		return SeverityError
	}
}

// Error is the normalized representation of a Postgres driver error. It
// keeps the original SQLSTATE and schema metadata so callers can build
// precise user-facing messages.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	if e.TableName != "" {
		return fmt.Sprintf("database error table:%s: %s (SQLSTATE %s)", e.TableName, e.Message, e.DatabaseCode)
	}
	return fmt.Sprintf("database error: %s (SQLSTATE %s)", e.Message, e.DatabaseCode)
}

// Unwrap exposes the original driver error so errors.As keeps working
// against pgconn types.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// ErrCode reports the mapped Code for a given error, or Other when the
// error chain contains no *sqlerr.Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}
