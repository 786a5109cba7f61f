package search

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/pkg/logger"
)

// Provider defines the interface shared by search providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// IsAvailable returns true if the provider is properly configured
	IsAvailable() bool
}

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the raw outcome of one provider call
type Response struct {
	StatusCode int
	Body       []byte
}

// NewHTTPClient returns a client bounded by timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// send performs exactly one request. Transport failures are classified into
// apperr.TimeoutError or apperr.NetworkError; no retries are attempted.
func send(ctx context.Context, client Doer, req *http.Request, timeout time.Duration) (*Response, error) {
	log := logger.FromContext(ctx)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Debug("request failed",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, classify(err, timeout)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err, timeout)
	}

	log.Debug("provider response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(body)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func classify(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperr.TimeoutError{Timeout: timeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &apperr.TimeoutError{Timeout: timeout, Err: err}
	}

	return &apperr.NetworkError{Err: err}
}
