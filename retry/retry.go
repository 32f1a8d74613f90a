// Package retry attempts operations multiple times with configurable
// cooldown strategies. It exists mainly to soften AWS API edges: throttled
// and quota-limited calls are worth waiting out, everything else should
// fail fast to the reconciler.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const noDelay = 0 * time.Nanosecond

const (
	ErrMaxAttempts = Error("maximum attempts reached")
)

// Error represents an internal sentinel error which can be defined as a
// constant.
type Error string

func (e Error) Error() string {
	return string(e)
}

// TemporaryError is an error that can indicate whether it may be resolved
// with another attempt.
type TemporaryError interface {
	error
	Temporary() bool
}

// RetriableError is an implementation of TemporaryError that is always
// retriable.
type RetriableError struct {
	err error
}

func (r RetriableError) Error() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

func (r RetriableError) Unwrap() error {
	return r.err
}

func (r RetriableError) Temporary() bool {
	return true
}

// WrapTemporaryError forces the error to be retriable; returns nil if the
// error is nil.
func WrapTemporaryError(err error) error {
	if err == nil {
		return nil
	}
	return RetriableError{err: err}
}

// Retrier attempts an operation until it succeeds, returns a permanent
// error, or the cooldown is exhausted. An error is retried if Classify
// says so, or (when Classify is nil) if it implements TemporaryError and
// reports true.
type Retrier struct {
	Cooldown CooldownFactory
	// Classify overrides the TemporaryError check. AWS callers plug in
	// throttle/quota classification here.
	Classify func(error) bool
}

func (r Retrier) retriable(err error) bool {
	if r.Classify != nil {
		return r.Classify(err)
	}
	var tempErr TemporaryError
	return errors.As(err, &tempErr) && tempErr.Temporary()
}

// Do repeatedly invokes run while the context remains active, sleeping
// between attempts per the cooldown.
func (r Retrier) Do(ctx context.Context, run func() error) error {
	cooldown := r.Cooldown()

	for {
		if err := ctx.Err(); err != nil {
			// nolint:wrapcheck // no meaningful information can be added to this error
			return err
		}

		err := run()
		if err == nil {
			return nil
		}
		if !r.retriable(err) {
			return err
		}

		delay, cooldownErr := cooldown()
		if cooldownErr != nil {
			return pkgerrors.Wrap(cooldownErr, "cooling down during retry, last error: "+err.Error())
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			// nolint:wrapcheck // context error is the whole story
			return sleepErr
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

// CooldownFunc is a function that returns how long to wait before the next
// attempt.
type CooldownFunc func() (time.Duration, error)

// CooldownFactory returns fresh CooldownFuncs so accumulated state (attempt
// counts, growth) resets between uses of a Retrier.
type CooldownFactory func() CooldownFunc

// Max limits how many times a subordinate cooldown can be invoked. Read the
// limit as the maximum number of *retries*; the operation always runs once.
func Max(limit int, factory CooldownFactory) CooldownFactory {
	return func() CooldownFunc {
		cooldown := factory()
		count := 0
		return func() (time.Duration, error) {
			if count >= limit {
				return noDelay, ErrMaxAttempts
			}
			delay, err := cooldown()
			if err != nil {
				return noDelay, err
			}
			count++
			return delay, nil
		}
	}
}

// AsFastAsPossible is a cooldown strategy that does not block, allowing
// retry logic to proceed as fast as possible. Useful in tests.
func AsFastAsPossible() CooldownFactory {
	return func() CooldownFunc {
		return func() (time.Duration, error) {
			return noDelay, nil
		}
	}
}

// Fixed produces the same delay value upon each invocation.
func Fixed(delay time.Duration) CooldownFactory {
	return func() CooldownFunc {
		return func() (time.Duration, error) {
			return delay, nil
		}
	}
}

// Exponential grows the base interval by powers of base, capped at limit
// (uncapped if limit is 0).
func Exponential(interval time.Duration, base int, limit time.Duration) CooldownFactory {
	return func() CooldownFunc {
		count := 0
		return func() (time.Duration, error) {
			increment := math.Pow(float64(base), float64(count))
			delay := time.Duration(interval.Nanoseconds() * int64(increment))
			if limit > 0 && delay > limit {
				delay = limit
			}
			count++
			return delay, nil
		}
	}
}

// Jittered picks a uniform random delay in [lower, upper) on each
// invocation. This is the requeue spread used after reconcile errors, so a
// herd of failing resources does not retry in lockstep.
func Jittered(lower, upper time.Duration) CooldownFactory {
	return func() CooldownFunc {
		return func() (time.Duration, error) {
			if upper <= lower {
				return lower, nil
			}
			return lower + time.Duration(rand.Int63n(int64(upper-lower))), nil
		}
	}
}
