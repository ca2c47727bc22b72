// internal/common/camunda/retry.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loan-assessment-workers/internal/common/errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryConfig defines retry behaviour for transient gateway failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is used when no retry configuration is given.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Retrier sends gateway commands with exponential backoff. Only transient
// failures are retried; the final error is a *errors.StandardError.
type Retrier struct {
	cfg RetryConfig
}

func NewRetrier(cfg *RetryConfig) *Retrier {
	if cfg == nil {
		cfg = DefaultRetryConfig
	}
	return &Retrier{cfg: *cfg}
}

// Do runs send until it succeeds, fails permanently or the retries run out.
func (r *Retrier) Do(ctx context.Context, operation string, send func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := send(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt > r.cfg.MaxRetries {
			return MapGatewayError(err, operation, attempt)
		}

		select {
		case <-time.After(r.backoff(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt, ctx.Err())
		}
	}
}

func (r *Retrier) backoff(attempt int) time.Duration {
	delay := r.cfg.BaseDelay * time.Duration(1<<(attempt-1))
	if r.cfg.MaxDelay > 0 && delay > r.cfg.MaxDelay {
		delay = r.cfg.MaxDelay
	}
	return delay
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

// IsTransient reports whether a gateway error is worth retrying.
func IsTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	case codes.Unknown:
		msg := strings.ToLower(err.Error())
		for _, phrase := range transientPhrases {
			if strings.Contains(msg, phrase) {
				return true
			}
		}
	}
	return false
}

// MapGatewayError converts a gateway failure into a standardized application error.
func MapGatewayError(err error, operation string, attempts int) *errors.StandardError {
	wrapped := fmt.Errorf("zeebe %s failed after %d attempt(s): %w", operation, attempts, err)
	msg := strings.ToLower(err.Error())

	switch code := status.Code(err); {
	case code == codes.DeadlineExceeded || strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return errors.NewTimeoutError("zeebe", wrapped)
	case code == codes.NotFound || strings.Contains(msg, "not found"):
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())
	case code == codes.AlreadyExists || code == codes.FailedPrecondition || strings.Contains(msg, "already exists"):
		return errors.NewBusinessRuleError(wrapped.Error(), "job is no longer in a state that accepts the command")
	case code == codes.PermissionDenied || code == codes.Unauthenticated ||
		strings.Contains(msg, "permission denied") || strings.Contains(msg, "unauthorized"):
		return errors.NewAuthenticationError(wrapped.Error())
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}
