package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/config"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/presenter"
	"github.com/young1lin/agent-web-search/internal/search"
)

type output struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (o *output) renderer(mode models.OutputMode) presenter.Renderer {
	return presenter.New(mode, &o.stdout, &o.stderr, false)
}

func fixedServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func braveHandler(baseURL, key string, r presenter.Renderer) *BraveHandler {
	p := search.NewBraveProvider(&config.BraveConfig{APIKey: key, BaseURL: baseURL, Timeout: 5}, nil)
	return NewBraveHandler(p, r)
}

func linkupHandler(baseURL, key string, r presenter.Renderer) *LinkupHandler {
	p := search.NewLinkupProvider(&config.LinkupConfig{APIKey: key, BaseURL: baseURL, Timeout: 5}, nil)
	return NewLinkupHandler(p, r)
}

func braveOpts(q string, n int, mode models.OutputMode) models.SearchOptions {
	return models.SearchOptions{Query: q, NumResults: n, Output: mode}
}

func linkupOpts(q string, ot models.OutputType, mode models.OutputMode) models.SearchOptions {
	return models.SearchOptions{
		Query:      q,
		NumResults: 10,
		Output:     mode,
		Depth:      models.DepthStandard,
		OutputType: ot,
	}
}

func TestBraveSearchSuccess(t *testing.T) {
	srv, calls := fixedServer(t, http.StatusOK, `{"web":{"results":[
		{"title":"Go","url":"https://go.dev","description":"The Go site"},
		{"title":"Tour","url":"https://go.dev/tour","description":"A tour"}
	]}}`)

	var o output
	err := braveHandler(srv.URL, "key", o.renderer(models.OutputJSON)).
		Search(context.Background(), braveOpts("golang", 5, models.OutputJSON))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	var doc models.BraveSearchOutput
	require.NoError(t, json.Unmarshal(o.stdout.Bytes(), &doc))
	assert.Equal(t, "golang", doc.Query)
	assert.Equal(t, 2, doc.NumResultsFound)
	assert.Equal(t, "https://go.dev/tour", doc.Results[1].URL)
	assert.Empty(t, o.stderr.String())
}

func TestBraveSearchNoResults(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusOK, `{"web":{"results":[]}}`)

	var o output
	err := braveHandler(srv.URL, "key", o.renderer(models.OutputText)).
		Search(context.Background(), braveOpts("zzqqxx", 10, models.OutputText))

	assert.ErrorIs(t, err, apperr.ErrNoResults)
	assert.Equal(t, apperr.ExitNoResults, apperr.ExitCode(err))
	assert.Contains(t, o.stdout.String(), "No results found.")
}

func TestBraveSearchUnauthorized(t *testing.T) {
	body := `{"type":"ErrorResponse","error":{"code":"SUBSCRIPTION_TOKEN_INVALID","detail":"The provided subscription token is invalid."}}`

	t.Run("text", func(t *testing.T) {
		srv, _ := fixedServer(t, http.StatusUnauthorized, body)

		var o output
		err := braveHandler(srv.URL, "bad", o.renderer(models.OutputText)).
			Search(context.Background(), braveOpts("golang", 10, models.OutputText))

		require.Error(t, err)
		assert.True(t, apperr.IsReported(err))
		assert.Equal(t, apperr.ExitProvider, apperr.ExitCode(err))
		assert.Empty(t, o.stdout.String())
		assert.Equal(t, "Error: API returned status code 401: The provided subscription token is invalid.\n", o.stderr.String())
	})

	t.Run("json", func(t *testing.T) {
		srv, _ := fixedServer(t, http.StatusUnauthorized, body)

		var o output
		err := braveHandler(srv.URL, "bad", o.renderer(models.OutputJSON)).
			Search(context.Background(), braveOpts("golang", 10, models.OutputJSON))

		require.Error(t, err)
		assert.Equal(t, apperr.ExitProvider, apperr.ExitCode(err))
		assert.JSONEq(t, `{
		  "error": true,
		  "query": "golang",
		  "status_code": 401,
		  "message": "The provided subscription token is invalid.",
		  "error_type": "provider_error"
		}`, o.stdout.String())
	})
}

func TestBraveSearchMissingCredential(t *testing.T) {
	srv, calls := fixedServer(t, http.StatusOK, `{}`)

	var o output
	err := braveHandler(srv.URL, "", o.renderer(models.OutputText)).
		Search(context.Background(), braveOpts("golang", 10, models.OutputText))

	require.Error(t, err)
	assert.Equal(t, apperr.ExitConfig, apperr.ExitCode(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, "Error: BRAVE_API_KEY environment variable not set\n", o.stderr.String())
}

func TestSearchTimeoutWritesNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputText)).
		Search(ctx, linkupOpts("slow", models.OutputSearchResults, models.OutputText))

	require.Error(t, err)
	assert.Equal(t, apperr.ExitTimeout, apperr.ExitCode(err))
	assert.Empty(t, o.stdout.String())
	assert.Contains(t, o.stderr.String(), "Error: request timed out")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var o output
	err := braveHandler(url, "key", o.renderer(models.OutputJSON)).
		Search(context.Background(), braveOpts("golang", 10, models.OutputJSON))

	require.Error(t, err)
	assert.Equal(t, apperr.ExitNetwork, apperr.ExitCode(err))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(o.stdout.Bytes(), &doc))
	assert.Equal(t, "network_error", doc["error_type"])
	assert.Equal(t, true, doc["error"])
}

func TestLinkupSearchResults(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusOK, `{"results":[
		{"type":"text","name":"PyTorch","url":"https://pytorch.org","content":"Tensors"}
	]}`)

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputJSON)).
		Search(context.Background(), linkupOpts("ml frameworks", models.OutputSearchResults, models.OutputJSON))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(o.stdout.Bytes(), &doc))
	assert.Equal(t, "search", doc["mode"])
	assert.Equal(t, false, doc["error"])
	assert.Len(t, doc["results"], 1)
}

func TestLinkupSearchEmptyResults(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusOK, `{"results":[]}`)

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputText)).
		Search(context.Background(), linkupOpts("nothing", models.OutputSearchResults, models.OutputText))

	assert.ErrorIs(t, err, apperr.ErrNoResults)
	assert.Contains(t, o.stdout.String(), "No results found.")
}

func TestLinkupSourcedAnswerIsNeverEmpty(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusOK, `{"answer":"42","sources":[]}`)

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputText)).
		Search(context.Background(), linkupOpts("meaning", models.OutputSourcedAnswer, models.OutputText))

	require.NoError(t, err)
	assert.Contains(t, o.stdout.String(), "Answer:\n42\n")
}

func TestLinkupUnauthorized(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusUnauthorized, `{"statusCode":401,"error":{"code":"UNAUTHORIZED","message":"Unauthorized action","details":[]}}`)

	var o output
	err := linkupHandler(srv.URL, "bad", o.renderer(models.OutputJSON)).
		Search(context.Background(), linkupOpts("q", models.OutputSearchResults, models.OutputJSON))

	require.Error(t, err)
	assert.Equal(t, apperr.ExitProvider, apperr.ExitCode(err))
	assert.JSONEq(t, `{
	  "mode": "search",
	  "query": "q",
	  "error": true,
	  "error_message": "Unauthorized action",
	  "status_code": 401,
	  "error_type": "provider_error"
	}`, o.stdout.String())
}

func TestLinkupFetch(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusOK, `{"markdown":"# Example Domain"}`)

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputJSON)).
		Fetch(context.Background(), models.FetchOptions{
			URL:    "https://example.com",
			Format: models.FormatMarkdown,
			Output: models.OutputJSON,
		})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(o.stdout.Bytes(), &doc))
	assert.Equal(t, "fetch", doc["mode"])
	assert.Equal(t, "https://example.com", doc["url"])
	assert.Equal(t, "# Example Domain", doc["content"])
}

func TestLinkupFetchError(t *testing.T) {
	srv, _ := fixedServer(t, http.StatusBadRequest, `{"error":{"message":"URL could not be fetched"}}`)

	var o output
	err := linkupHandler(srv.URL, "key", o.renderer(models.OutputText)).
		Fetch(context.Background(), models.FetchOptions{URL: "https://example.com", Format: models.FormatMarkdown})

	require.Error(t, err)
	assert.Equal(t, apperr.ExitProvider, apperr.ExitCode(err))
	assert.Equal(t, "Error: API returned status code 400: URL could not be fetched\n", o.stderr.String())
}

func TestReport(t *testing.T) {
	t.Run("already reported errors are not rendered again", func(t *testing.T) {
		var o output
		err := apperr.Reported(errors.New("boom"))
		assert.Equal(t, err, Report(o.renderer(models.OutputText), models.APIError{}, err))
		assert.Empty(t, o.stderr.String())
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		var o output
		err := Report(o.renderer(models.OutputJSON), models.APIError{Provider: models.ProviderBrave, Query: "q"}, errors.New("boom"))
		assert.Equal(t, apperr.ExitInternal, apperr.ExitCode(err))
		assert.Contains(t, o.stdout.String(), `"error_type": "internal_error"`)
	})
}

// stubProvider answers every call with a fixed response or error
type stubProvider struct {
	name  string
	resp  *search.Response
	err   error
	calls int
}

func (p *stubProvider) Name() string      { return p.name }
func (p *stubProvider) IsAvailable() bool { return true }

func (p *stubProvider) Search(ctx context.Context, opts models.SearchOptions) (*search.Response, error) {
	p.calls++
	return p.resp, p.err
}

func (p *stubProvider) Fetch(ctx context.Context, opts models.FetchOptions) (*search.Response, error) {
	p.calls++
	return p.resp, p.err
}

func TestHandlersUseProviderName(t *testing.T) {
	timeout := &apperr.TimeoutError{Timeout: 30 * time.Second, Err: context.DeadlineExceeded}

	t.Run("brave error document", func(t *testing.T) {
		p := &stubProvider{name: models.ProviderBrave, err: timeout}

		var o output
		err := NewBraveHandler(p, o.renderer(models.OutputJSON)).
			Search(context.Background(), braveOpts("golang", 10, models.OutputJSON))

		assert.Equal(t, apperr.ExitTimeout, apperr.ExitCode(err))
		assert.Equal(t, 1, p.calls)
		assert.JSONEq(t, `{
		  "error": true,
		  "query": "golang",
		  "message": "request timed out after 30s",
		  "error_type": "timeout_error"
		}`, o.stdout.String())
	})

	t.Run("linkup error document", func(t *testing.T) {
		p := &stubProvider{name: models.ProviderLinkup, err: timeout}

		var o output
		err := NewLinkupHandler(p, o.renderer(models.OutputJSON)).
			Fetch(context.Background(), models.FetchOptions{URL: "https://example.com", Format: models.FormatMarkdown})

		assert.Equal(t, apperr.ExitTimeout, apperr.ExitCode(err))
		assert.JSONEq(t, `{
		  "mode": "fetch",
		  "url": "https://example.com",
		  "error": true,
		  "error_message": "request timed out after 30s",
		  "error_type": "timeout_error"
		}`, o.stdout.String())
	})

	t.Run("success passes the raw response to the converter", func(t *testing.T) {
		p := &stubProvider{
			name: models.ProviderLinkup,
			resp: &search.Response{StatusCode: http.StatusOK, Body: []byte(`{"answer":"yes","sources":[]}`)},
		}

		var o output
		err := NewLinkupHandler(p, o.renderer(models.OutputText)).
			Search(context.Background(), linkupOpts("q", models.OutputSourcedAnswer, models.OutputText))

		require.NoError(t, err)
		assert.Contains(t, o.stdout.String(), "Answer:\nyes\n")
	})
}
