// Package dispatcher triggers the next quantum. It blocks for the
// configured inter-quantum delay inside the current quantum's wall-clock
// budget, then sends the activation call with the shared retry discipline.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/retry"
)

// ErrDispatchFailure reports that the activation call could not be sent
// after the bounded retries. Fatal: the chain stops, but the record stays
// intact so an operator can resume manually.
var ErrDispatchFailure = errors.New("could not activate next quantum")

// Activator is the outbound activation call.
type Activator interface {
	Dispatch(ctx context.Context, eventType string) error
}

// Dispatcher schedules the next quantum of the session.
type Dispatcher struct {
	api       Activator
	eventType string
	policy    retry.Policy

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Dispatcher sending the given activation tag.
func New(api Activator, eventType string, policy retry.Policy) *Dispatcher {
	return &Dispatcher{
		api:       api,
		eventType: eventType,
		policy:    policy,
		sleep:     contextSleep,
	}
}

// ScheduleNext waits delay, then issues the activation call. The wait is
// context-aware: if the platform cancels the quantum mid-sleep, no
// activation is sent.
func (d *Dispatcher) ScheduleNext(ctx context.Context, delay time.Duration) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Sleeping before next activation.", "delay", delay)

	if err := d.sleep(ctx, delay); err != nil {
		return fmt.Errorf("wait before dispatch: %w", err)
	}

	_, err := retry.Do(ctx, "activate next quantum", d.policy, func() (struct{}, error) {
		return struct{}{}, d.api.Dispatch(ctx, d.eventType)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailure, err)
	}

	logger.Info("Next quantum activated.", "event_type", d.eventType)
	return nil
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
