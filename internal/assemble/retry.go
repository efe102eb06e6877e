package assemble

import (
	"context"
	"time"

	"trancheScope/internal/insurance"
)

// RetryPolicy is the explicit per-branch retry policy for leaf chain reads:
// up to MaxAttempts total attempts with a fixed delay between them. Failures
// past the budget degrade the branch; they are never escalated to the whole
// operation.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy is one retry with a short fixed delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Delay: 150 * time.Millisecond}
}

// Do runs fn until it succeeds, the attempt budget is spent, or the context
// is canceled. NOT_FOUND failures are not retried: the entity will not
// appear between attempts.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		if re, ok := insurance.AsReadError(err); ok && !re.Retryable() {
			return err
		}

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
