// internal/common/camunda/retry_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"loan-assessment-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestRetrier(maxRetries int) *Retrier {
	return NewRetrier(&RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	})
}

func TestRetrier_RetriesTransientErrors(t *testing.T) {
	r := newTestRetrier(3)
	attempts := 0

	err := r.Do(context.Background(), "complete job", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return status.Error(codes.Unavailable, "gateway restarting")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrier_MapsErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		attempts  int
		code      errors.ErrorCode
		retryable bool
	}{
		{"exhausted unavailable", status.Error(codes.Unavailable, "no brokers"), 3, errors.ErrCodeExternalServiceFailed, true},
		{"exhausted plain transient", stderrors.New("connection reset by peer"), 3, errors.ErrCodeExternalServiceFailed, true},
		{"deadline", status.Error(codes.DeadlineExceeded, "took too long"), 3, errors.ErrCodeTimeout, true},
		{"job gone", status.Error(codes.NotFound, "job with key 5"), 1, errors.ErrCodeResourceNotFound, false},
		{"job already completed", status.Error(codes.FailedPrecondition, "job is not activatable"), 1, errors.ErrCodeBusinessRuleViolation, false},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad token"), 1, errors.ErrCodeAuthenticationFailed, false},
		{"invalid variables", status.Error(codes.InvalidArgument, "bad variables document"), 1, errors.ErrCodeExternalServiceFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRetrier(2)
			attempts := 0

			err := r.Do(context.Background(), "complete job", func(context.Context) error {
				attempts++
				return tt.err
			})

			assert.Equal(t, tt.attempts, attempts)
			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
			assert.Contains(t, stdErr.Message+" "+stdErr.Details, "complete job")
		})
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := NewRetrier(&RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Do(ctx, "complete job", func(context.Context) error {
		return status.Error(codes.Unavailable, "down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(status.Error(codes.ResourceExhausted, "backpressure")))
	assert.True(t, IsTransient(stderrors.New("dial tcp: connection refused")))
	assert.False(t, IsTransient(status.Error(codes.NotFound, "job")))
	assert.False(t, IsTransient(stderrors.New("bad variables document")))
}
