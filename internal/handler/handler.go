// Package handler runs one search or fetch invocation end to end: build the
// provider request, call it once, normalize the response and present it.
package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/presenter"
	"github.com/young1lin/agent-web-search/internal/search"
	"github.com/young1lin/agent-web-search/pkg/logger"
)

// Report presents err through r exactly once and marks it as reported.
// base carries the provider and the originating query or URL.
func Report(r presenter.Renderer, base models.APIError, err error) error {
	if err == nil || apperr.IsReported(err) {
		return err
	}

	base.Kind = string(apperr.KindOf(err))
	base.StatusCode = apperr.StatusCode(err)
	base.Message = err.Error()

	var provider *apperr.ProviderError
	if errors.As(err, &provider) {
		base.Message = provider.Message
	}

	if rerr := r.Error(&base); rerr != nil {
		logger.Warn("failed to write error", zap.Error(rerr))
	}
	return apperr.Reported(err)
}

// startInvocation tags ctx with a fresh trace ID
func startInvocation(ctx context.Context, p search.Provider) (context.Context, *zap.Logger) {
	traceID := generateTraceID()
	ctx = logger.ContextWithTraceID(ctx, traceID)

	log := logger.WithTraceID(traceID).With(zap.String("provider", p.Name()))
	if !p.IsAvailable() {
		log.Debug("provider has no credential configured")
	}
	return ctx, log
}

// generateTraceID generates a new trace ID
func generateTraceID() string {
	return uuid.New().String()[:16]
}
