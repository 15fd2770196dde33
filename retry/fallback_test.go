package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFallback_Success(t *testing.T) {
	attempts := 0
	operation := func() (string, error) {
		attempts++
		return "result", nil
	}
	fallback := func(err error) string { return "placeholder" }

	got, err := WithFallback(context.Background(), testPolicy(3, time.Millisecond), operation, fallback)
	require.NoError(t, err)
	assert.Equal(t, "result", got)
	assert.Equal(t, 1, attempts)
}

func TestWithFallback_SubstitutesAfterExhaustion(t *testing.T) {
	attempts := 0
	opErr := errors.New("service unavailable")
	operation := func() (string, error) {
		attempts++
		return "", opErr
	}
	var seen error
	fallback := func(err error) string {
		seen = err
		return "placeholder"
	}

	got, err := WithFallback(context.Background(), testPolicy(3, time.Millisecond), operation, fallback)
	require.NoError(t, err, "degradation must not surface as an error")
	assert.Equal(t, "placeholder", got)
	assert.Equal(t, 3, attempts, "should exhaust all attempts before falling back")
	assert.ErrorIs(t, seen, opErr, "fallback should receive the final error")
}

func TestWithFallback_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	operation := func() (int, error) { return 7, nil }
	fallback := func(err error) int { return -1 }

	got, err := WithFallback(ctx, testPolicy(3, time.Millisecond), operation, fallback)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, got, "canceled calls must not produce a fallback value")
}
