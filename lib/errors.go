package lib

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Domain errors
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotificationFailed      = errors.New("notification failed")
	ErrEmailNotConfigured      = errors.New("no email transport configured")
	ErrAlreadyVoted            = errors.New("already voted")
)

// RangeError reports a value outside an inclusive [Min, Max] window.
type RangeError struct {
	Field string `json:"field"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Got   int    `json:"got"`
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, e.Min, e.Max, e.Got)
}

const (
	sqlStateUniqueViolation = "23505"
	sqlStateNoDataFound     = "P0002"
)

// MapPgError translates driver errors from either pgdriver or pgx into the
// package sentinels.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var code string
	var bunErr pgdriver.Error
	var pgxErr *pgconn.PgError
	switch {
	case errors.As(err, &bunErr):
		code = bunErr.Field('C') // SQLSTATE
	case errors.As(err, &pgxErr):
		code = pgxErr.Code
	}

	switch code {
	case sqlStateUniqueViolation:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case sqlStateNoDataFound:
		return ErrNotFound
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}
