package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/config"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/pkg/logger"
)

const (
	defaultBraveBaseURL = "https://api.search.brave.com"
	braveSearchPath     = "/res/v1/web/search"
)

// BraveProvider implements the Brave Search web API
type BraveProvider struct {
	apiKey     string
	baseURL    string
	country    string
	searchLang string
	timeout    time.Duration
	client     Doer
}

// braveSearchParams is the query string of a web search request
type braveSearchParams struct {
	Query      string `url:"q"`
	Count      int    `url:"count"`
	Country    string `url:"country,omitempty"`
	SearchLang string `url:"search_lang,omitempty"`
}

// NewBraveProvider creates a new Brave provider. A nil client gets a default
// http.Client bounded by the configured timeout.
func NewBraveProvider(cfg *config.BraveConfig, client Doer) *BraveProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if client == nil {
		client = NewHTTPClient(timeout)
	}

	return &BraveProvider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		country:    cfg.Country,
		searchLang: cfg.SearchLang,
		timeout:    timeout,
		client:     client,
	}
}

// Name returns the provider name
func (p *BraveProvider) Name() string {
	return models.ProviderBrave
}

// IsAvailable returns true if the provider is properly configured
func (p *BraveProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// BuildRequest maps search options onto a web search request
func (p *BraveProvider) BuildRequest(ctx context.Context, opts models.SearchOptions) (*http.Request, error) {
	if !p.IsAvailable() {
		return nil, apperr.MissingCredential(config.BraveAPIKeyEnv)
	}

	params, err := query.Values(braveSearchParams{
		Query:      opts.Query,
		Count:      min(opts.NumResults, models.BraveMaxCount),
		Country:    p.country,
		SearchLang: p.searchLang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s%s?%s", p.baseURL, braveSearchPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Subscription-Token", p.apiKey)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Search performs one web search call and returns the raw response
func (p *BraveProvider) Search(ctx context.Context, opts models.SearchOptions) (*Response, error) {
	req, err := p.BuildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("brave search",
		zap.String("query", opts.Query),
		zap.Int("num_results", opts.NumResults),
	)

	return send(ctx, p.client, req, p.timeout)
}
