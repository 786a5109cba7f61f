package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/config"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/pkg/logger"
)

const (
	defaultLinkupBaseURL = "https://api.linkup.so"
	linkupSearchPath     = "/v1/search"
	linkupFetchPath      = "/v1/fetch"

	// maxIncludeDomains caps the include list sent upstream
	maxIncludeDomains = 100
)

// LinkupProvider implements the Linkup search and fetch API
type LinkupProvider struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  Doer
}

// linkupSearchRequest represents the search request body
type linkupSearchRequest struct {
	Query                  string   `json:"q"`
	Depth                  string   `json:"depth"`
	OutputType             string   `json:"outputType"`
	MaxResults             int      `json:"maxResults"`
	FromDate               string   `json:"fromDate,omitempty"`
	ToDate                 string   `json:"toDate,omitempty"`
	IncludeDomains         []string `json:"includeDomains,omitempty"`
	ExcludeDomains         []string `json:"excludeDomains,omitempty"`
	StructuredOutputSchema string   `json:"structuredOutputSchema,omitempty"`
}

// linkupFetchRequest represents the fetch request body
type linkupFetchRequest struct {
	URL            string `json:"url"`
	OutputFormat   string `json:"outputFormat"`
	RenderJS       bool   `json:"renderJs,omitempty"`
	IncludeRawHTML bool   `json:"includeRawHtml,omitempty"`
}

// NewLinkupProvider creates a new Linkup provider. A nil client gets a
// default http.Client bounded by the configured timeout.
func NewLinkupProvider(cfg *config.LinkupConfig, client Doer) *LinkupProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultLinkupBaseURL
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if client == nil {
		client = NewHTTPClient(timeout)
	}

	return &LinkupProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		client:  client,
	}
}

// Name returns the provider name
func (p *LinkupProvider) Name() string {
	return models.ProviderLinkup
}

// IsAvailable returns true if the provider is properly configured
func (p *LinkupProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// BuildSearchRequest maps search options onto a /search request
func (p *LinkupProvider) BuildSearchRequest(ctx context.Context, opts models.SearchOptions) (*http.Request, error) {
	include := opts.IncludeDomains
	if len(include) > maxIncludeDomains {
		include = include[:maxIncludeDomains]
	}

	body := linkupSearchRequest{
		Query:          opts.Query,
		Depth:          string(opts.Depth),
		OutputType:     string(opts.OutputType),
		MaxResults:     min(opts.NumResults, models.MaxResults),
		FromDate:       opts.FromDateString(),
		ToDate:         opts.ToDateString(),
		IncludeDomains: include,
		ExcludeDomains: opts.ExcludeDomains,
	}
	if len(opts.Schema) > 0 {
		// The API takes the schema as a JSON-encoded string
		body.StructuredOutputSchema = string(opts.Schema)
	}

	return p.newRequest(ctx, linkupSearchPath, body)
}

// BuildFetchRequest maps fetch options onto a /fetch request
func (p *LinkupProvider) BuildFetchRequest(ctx context.Context, opts models.FetchOptions) (*http.Request, error) {
	body := linkupFetchRequest{
		URL:            opts.URL,
		OutputFormat:   string(opts.Format),
		RenderJS:       opts.RenderJS,
		IncludeRawHTML: opts.Format == models.FormatHTML,
	}

	return p.newRequest(ctx, linkupFetchPath, body)
}

func (p *LinkupProvider) newRequest(ctx context.Context, path string, body interface{}) (*http.Request, error) {
	if !p.IsAvailable() {
		return nil, apperr.MissingCredential(config.LinkupAPIKeyEnv)
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	return req, nil
}

// Search performs one /search call and returns the raw response
func (p *LinkupProvider) Search(ctx context.Context, opts models.SearchOptions) (*Response, error) {
	req, err := p.BuildSearchRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("linkup search",
		zap.String("query", opts.Query),
		zap.String("depth", string(opts.Depth)),
		zap.String("output_type", string(opts.OutputType)),
	)

	return send(ctx, p.client, req, p.timeout)
}

// Fetch performs one /fetch call and returns the raw response
func (p *LinkupProvider) Fetch(ctx context.Context, opts models.FetchOptions) (*Response, error) {
	req, err := p.BuildFetchRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("linkup fetch",
		zap.String("url", opts.URL),
		zap.String("format", string(opts.Format)),
		zap.Bool("render_js", opts.RenderJS),
	)

	return send(ctx, p.client, req, p.timeout)
}
