package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	content := json.RawMessage(`{"ok":true}`)
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: content},
	)
	provider := WithRetry(mock, fastRetryConfig())

	resp, err := provider.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, string(content), string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	provider := WithRetry(mock, fastRetryConfig())

	_, err := provider.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetryInvalidResponseOnlyOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{}},
		MockResponse{Err: &ErrInvalidResponse{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	provider := WithRetry(mock, fastRetryConfig())

	_, err := provider.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetryDoesNotRetryTruncation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrMaxTokensExceeded{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	provider := WithRetry(mock, fastRetryConfig())

	_, err := provider.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 20 * time.Millisecond}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	provider := WithRetry(mock, fastRetryConfig())

	start := time.Now()
	_, err := provider.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockProvider(MockResponse{Err: ctx.Err()})
	provider := WithRetry(mock, fastRetryConfig())

	_, err := provider.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}
