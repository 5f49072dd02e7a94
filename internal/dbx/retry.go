package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// IsRetryable reports whether err came from a broken or unreachable
// connection before any statement reached the server, so running the call
// again cannot apply a write twice.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// WithReconnect runs fn and, if it fails with a retryable connection error,
// runs it exactly once more after delay. Any other error is returned as is.
func WithReconnect(ctx context.Context, delay time.Duration, fn func(ctx context.Context) error) error {
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(1, retry.NewConstant(delay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
