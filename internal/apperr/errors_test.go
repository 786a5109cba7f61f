package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"no results", ErrNoResults, ExitNoResults},
		{"validation", Validation("--num-results", "must be at least 1"), ExitUsage},
		{"configuration", MissingCredential("BRAVE_API_KEY"), ExitConfig},
		{"network", &NetworkError{Err: errors.New("connection refused")}, ExitNetwork},
		{"timeout", &TimeoutError{Timeout: time.Second, Err: context.DeadlineExceeded}, ExitTimeout},
		{"provider", &ProviderError{StatusCode: 401, Message: "unauthorized"}, ExitProvider},
		{"wrapped provider", fmt.Errorf("search: %w", &ProviderError{StatusCode: 500}), ExitProvider},
		{"reported timeout", Reported(&TimeoutError{}), ExitTimeout},
		{"unknown", errors.New("boom"), ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{ExitNoResults, ExitUsage, ExitConfig, ExitNetwork, ExitTimeout, ExitProvider, ExitInternal}
	seen := map[int]bool{ExitOK: true}
	for _, c := range codes {
		assert.False(t, seen[c], "exit code %d reused", c)
		seen[c] = true
	}
}

func TestKindAndStatus(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ProviderError{StatusCode: 401, Message: "invalid token"})

	assert.Equal(t, KindProvider, KindOf(err))
	assert.Equal(t, 401, StatusCode(err))
	assert.Equal(t, 0, StatusCode(&NetworkError{Err: errors.New("x")}))
	assert.Equal(t, KindTimeout, KindOf(&TimeoutError{Err: &NetworkError{}}))
}

func TestTimeoutUnwrapsDeadline(t *testing.T) {
	err := &TimeoutError{Timeout: 30 * time.Second, Err: context.DeadlineExceeded}

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "request timed out after 30s", err.Error())
}

func TestReported(t *testing.T) {
	base := Validation("query", "must not be empty")
	err := Reported(base)

	assert.True(t, IsReported(err))
	assert.False(t, IsReported(base))
	assert.Same(t, err, Reported(err))
	assert.Nil(t, Reported(nil))
	assert.Equal(t, "invalid query: must not be empty", err.Error())
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "BRAVE_API_KEY environment variable not set", MissingCredential("BRAVE_API_KEY").Error())
	assert.Equal(t, "API returned status code 401: bad key", (&ProviderError{StatusCode: 401, Message: "bad key"}).Error())
	assert.Equal(t, "API error: quota", (&ProviderError{Message: "quota"}).Error())
	assert.Equal(t, "failed to make request - refused", (&NetworkError{Err: errors.New("refused")}).Error())
}
