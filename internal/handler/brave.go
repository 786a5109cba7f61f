package handler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/converter"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/presenter"
	"github.com/young1lin/agent-web-search/internal/search"
)

// Searcher is a provider that answers web searches
type Searcher interface {
	search.Provider
	Search(ctx context.Context, opts models.SearchOptions) (*search.Response, error)
}

// BraveHandler runs Brave web searches
type BraveHandler struct {
	provider Searcher
	renderer presenter.Renderer
}

// NewBraveHandler creates a new Brave handler
func NewBraveHandler(provider Searcher, renderer presenter.Renderer) *BraveHandler {
	return &BraveHandler{provider: provider, renderer: renderer}
}

// Search performs one search and presents its outcome. The returned error is
// already presented; apperr.ErrNoResults signals an empty result.
func (h *BraveHandler) Search(ctx context.Context, opts models.SearchOptions) error {
	ctx, log := startInvocation(ctx, h.provider)
	start := time.Now()

	base := models.APIError{Provider: h.provider.Name(), Query: opts.Query}

	resp, err := h.provider.Search(ctx, opts)
	if err != nil {
		log.Debug("search failed", zap.Error(err))
		return Report(h.renderer, base, err)
	}

	out, err := converter.ConvertBraveSearch(resp.StatusCode, resp.Body, opts)
	if err != nil {
		return Report(h.renderer, base, err)
	}

	if err := h.renderer.BraveSearch(out); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	log.Debug("search completed",
		zap.Int("results", len(out.Results)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if len(out.Results) == 0 {
		return apperr.ErrNoResults
	}
	return nil
}
