package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Backoff spaces out the attempts made by Do.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Cap      time.Duration
}

var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond, Cap: 2 * time.Second}

func (b Backoff) delay(retry int) time.Duration {
	return min(b.Base<<retry, b.Cap)
}

// Do runs fn until it succeeds, fails permanently, or runs out of attempts.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < max(b.Attempts, 1); attempt++ {
		if attempt > 0 {
			t := time.NewTimer(b.delay(attempt - 1))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		if err = fn(); err == nil || !transientError(err) {
			return err
		}
	}
	return err
}

// WithRetry runs fn with DefaultBackoff.
func WithRetry(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}

// sqlState extracts the SQLSTATE code from pgdriver or pgx errors.
func sqlState(err error) string {
	var bunErr pgdriver.Error
	if errors.As(err, &bunErr) {
		return bunErr.Field('C')
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Error classes worth another attempt: connection exceptions, insufficient
// resources, and operator intervention (57P03 cannot_connect_now and friends).
var retryableClasses = map[string]bool{"08": true, "53": true, "57": true}

var retryableCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

func transientError(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code := sqlState(err); code != "" {
		return retryableCodes[code] || (len(code) == 5 && retryableClasses[code[:2]])
	}
	return brokenConnection(err)
}

// brokenConnection reports network level failures between us and Postgres.
func brokenConnection(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
