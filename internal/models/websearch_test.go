package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestLinkupSearchOutputBranches(t *testing.T) {
	params := LinkupParameters{NumResultsRequested: 3, Depth: "standard", OutputType: "searchResults"}

	t.Run("search results", func(t *testing.T) {
		m := decode(t, LinkupSearchOutput{
			Query:      "go",
			Parameters: params,
			OutputType: OutputSearchResults,
			Results:    []LinkupResult{{Name: "Go", URL: "https://go.dev", Content: "c", Type: LinkupSourceType}},
			TotalFound: 1,
		})

		assert.Equal(t, "search", m["mode"])
		assert.Equal(t, false, m["error"])
		assert.Equal(t, float64(1), m["total_found"])
		assert.Len(t, m["results"], 1)
		assert.NotContains(t, m, "answer")
		assert.NotContains(t, m, "structured_data")
	})

	t.Run("empty search results still emit an array", func(t *testing.T) {
		data, err := json.Marshal(LinkupSearchOutput{Query: "x", OutputType: OutputSearchResults})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"results":[]`)
		assert.Contains(t, string(data), `"total_found":0`)
	})

	t.Run("sourced answer", func(t *testing.T) {
		m := decode(t, LinkupSearchOutput{
			Query:      "q",
			OutputType: OutputSourcedAnswer,
			Answer:     "42",
			Sources:    []LinkupSource{{Name: "Guide", URL: "https://h2g2.com"}},
		})

		assert.Equal(t, "42", m["answer"])
		assert.Len(t, m["sources"], 1)
		assert.Empty(t, m["results"])
		assert.NotContains(t, m, "total_found")
	})

	t.Run("structured", func(t *testing.T) {
		m := decode(t, LinkupSearchOutput{
			Query:          "q",
			OutputType:     OutputStructured,
			StructuredData: json.RawMessage(`{"company":"Acme","employees":12}`),
		})

		data, ok := m["structured_data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Acme", data["company"])
		assert.NotContains(t, m, "answer")
	})
}

func TestAPIErrorJSON(t *testing.T) {
	t.Run("brave", func(t *testing.T) {
		m := decode(t, APIError{Provider: ProviderBrave, Query: "q", StatusCode: 401, Message: "unauthorized", Kind: "provider_error"})

		assert.Equal(t, true, m["error"])
		assert.Equal(t, "q", m["query"])
		assert.Equal(t, float64(401), m["status_code"])
		assert.Equal(t, "unauthorized", m["message"])
	})

	t.Run("brave without status", func(t *testing.T) {
		m := decode(t, APIError{Provider: ProviderBrave, Query: "q", Message: "Request timed out", Kind: "timeout_error"})
		assert.NotContains(t, m, "status_code")
		assert.Equal(t, "timeout_error", m["error_type"])
	})

	t.Run("linkup fetch", func(t *testing.T) {
		m := decode(t, APIError{Provider: ProviderLinkup, Mode: "fetch", URL: "https://example.com", Message: "nope", StatusCode: 404})

		assert.Equal(t, "fetch", m["mode"])
		assert.Equal(t, "https://example.com", m["url"])
		assert.Equal(t, "nope", m["error_message"])
		assert.NotContains(t, m, "query")
	})
}

func TestSearchOptionsDates(t *testing.T) {
	opts := SearchOptions{FromDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, "2024-01-02", opts.FromDateString())
	assert.Equal(t, "", opts.ToDateString())
}

func TestMarshalKeepsURLsLiteral(t *testing.T) {
	out := LinkupSearchOutput{
		Query:      "q",
		OutputType: OutputSearchResults,
		Results:    []LinkupResult{{URL: "https://example.com/?a=1&b=2", Type: LinkupSourceType}},
	}

	data, err := out.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "?a=1&b=2")
	assert.NotContains(t, string(data), "\n")
}
