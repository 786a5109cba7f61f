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

// SearchFetcher is a provider that answers searches and fetches pages
type SearchFetcher interface {
	Searcher
	Fetch(ctx context.Context, opts models.FetchOptions) (*search.Response, error)
}

// LinkupHandler runs Linkup searches and fetches
type LinkupHandler struct {
	provider SearchFetcher
	renderer presenter.Renderer
}

// NewLinkupHandler creates a new Linkup handler
func NewLinkupHandler(provider SearchFetcher, renderer presenter.Renderer) *LinkupHandler {
	return &LinkupHandler{provider: provider, renderer: renderer}
}

// Search performs one Linkup search. Only the searchResults shape can end
// with apperr.ErrNoResults.
func (h *LinkupHandler) Search(ctx context.Context, opts models.SearchOptions) error {
	ctx, log := startInvocation(ctx, h.provider)
	start := time.Now()

	base := models.APIError{Provider: h.provider.Name(), Mode: "search", Query: opts.Query}

	resp, err := h.provider.Search(ctx, opts)
	if err != nil {
		log.Debug("search failed", zap.Error(err))
		return Report(h.renderer, base, err)
	}

	out, err := converter.ConvertLinkupSearch(resp.StatusCode, resp.Body, opts)
	if err != nil {
		return Report(h.renderer, base, err)
	}

	if err := h.renderer.LinkupSearch(out); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	log.Debug("search completed",
		zap.String("output_type", string(opts.OutputType)),
		zap.Int("results", len(out.Results)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if opts.OutputType == models.OutputSearchResults && len(out.Results) == 0 {
		return apperr.ErrNoResults
	}
	return nil
}

// Fetch retrieves one page through Linkup and presents its content
func (h *LinkupHandler) Fetch(ctx context.Context, opts models.FetchOptions) error {
	ctx, log := startInvocation(ctx, h.provider)
	start := time.Now()

	base := models.APIError{Provider: h.provider.Name(), Mode: "fetch", URL: opts.URL}

	resp, err := h.provider.Fetch(ctx, opts)
	if err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return Report(h.renderer, base, err)
	}

	out, err := converter.ConvertLinkupFetch(resp.StatusCode, resp.Body, opts)
	if err != nil {
		return Report(h.renderer, base, err)
	}

	if err := h.renderer.LinkupFetch(out); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	log.Debug("fetch completed",
		zap.Int("content_bytes", len(out.Content)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
