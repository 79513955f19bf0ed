// Package retry provides the single retry discipline shared by every
// remote sub-operation: at most 3 attempts, waiting 2^attempt base units
// between them, no jitter. Centralizing it keeps the store, dispatcher and
// finalizer from drifting apart on backoff behavior.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
)

// Attempts is the bound on tries for any retried sub-operation.
const Attempts = 3

// DefaultUnit is the base backoff unit: waits are 2, then 4 units.
const DefaultUnit = time.Second

// Policy configures the backoff schedule. The zero value uses DefaultUnit;
// tests inject a millisecond unit to keep the schedule observable but fast.
type Policy struct {
	Unit time.Duration
}

// Do runs op up to Attempts times, sleeping 2^attempt units between
// failures. It returns op's last error once attempts are exhausted, and
// stops early if ctx is done. Permanent marks an error as not worth
// retrying.
func Do[T any](ctx context.Context, name string, p Policy, op func() (T, error)) (T, error) {
	unit := p.Unit
	if unit <= 0 {
		unit = DefaultUnit
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * unit
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 8 * unit

	logger := ctxlog.FromContext(ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("Operation failed, backing off.", "op", name, "wait", wait, "error", err)
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(Attempts),
		backoff.WithNotify(notify),
	)
}

// Permanent wraps err so Do stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
