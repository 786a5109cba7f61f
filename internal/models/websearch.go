package models

import (
	"bytes"
	"encoding/json"
)

// Provider identifiers
const (
	ProviderBrave  = "brave"
	ProviderLinkup = "linkup"
)

// EngineBrave tags results produced by the Brave Search API
const EngineBrave = "brave_search"

// BraveMaxCount is the largest page the Brave web search endpoint returns
const BraveMaxCount = 20

// LinkupSourceType tags Linkup search-result items
const LinkupSourceType = "source"

// BraveSearchOutput is the normalized Brave search response
type BraveSearchOutput struct {
	Query               string        `json:"query"`
	NumResultsRequested int           `json:"num_results_requested"`
	NumResultsFound     int           `json:"num_results_found"`
	Results             []BraveResult `json:"results"`
}

// BraveResult is a single normalized Brave result
type BraveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Engine      string `json:"engine"`
}

// LinkupParameters echoes the request parameters in Linkup search output
type LinkupParameters struct {
	NumResultsRequested int      `json:"num_results_requested"`
	Depth               string   `json:"depth"`
	OutputType          string   `json:"output_type"`
	FromDate            string   `json:"from_date,omitempty"`
	ToDate              string   `json:"to_date,omitempty"`
	IncludeDomains      []string `json:"include_domains,omitempty"`
	ExcludeDomains      []string `json:"exclude_domains,omitempty"`
}

// LinkupResult is a normalized Linkup search-result item
type LinkupResult struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// LinkupSource is a source backing a sourced answer
type LinkupSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// LinkupSearchOutput is the normalized Linkup search response. Exactly one of
// Results, Answer/Sources or StructuredData is meaningful, chosen by OutputType.
type LinkupSearchOutput struct {
	Query          string
	Parameters     LinkupParameters
	OutputType     OutputType
	Results        []LinkupResult
	TotalFound     int
	Answer         string
	Sources        []LinkupSource
	StructuredData json.RawMessage
}

type linkupEnvelope struct {
	Mode       string           `json:"mode"`
	Query      string           `json:"query"`
	Parameters LinkupParameters `json:"parameters"`
	Results    []LinkupResult   `json:"results"`
	Error      bool             `json:"error"`
}

// MarshalJSON renders the branch selected by OutputType
func (o LinkupSearchOutput) MarshalJSON() ([]byte, error) {
	env := linkupEnvelope{
		Mode:       "search",
		Query:      o.Query,
		Parameters: o.Parameters,
		Results:    []LinkupResult{},
	}

	switch o.OutputType {
	case OutputSourcedAnswer:
		sources := o.Sources
		if sources == nil {
			sources = []LinkupSource{}
		}
		return marshal(struct {
			linkupEnvelope
			Answer  string         `json:"answer"`
			Sources []LinkupSource `json:"sources"`
		}{env, o.Answer, sources})

	case OutputStructured:
		data := o.StructuredData
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		return marshal(struct {
			linkupEnvelope
			StructuredData json.RawMessage `json:"structured_data"`
		}{env, data})

	default:
		if o.Results != nil {
			env.Results = o.Results
		}
		return marshal(struct {
			linkupEnvelope
			TotalFound int `json:"total_found"`
		}{env, o.TotalFound})
	}
}

// LinkupFetchParameters echoes the fetch request parameters
type LinkupFetchParameters struct {
	OutputFormat string `json:"output_format"`
	RenderJS     bool   `json:"render_js"`
}

// LinkupFetchOutput is the normalized Linkup fetch response
type LinkupFetchOutput struct {
	Mode         string                `json:"mode"`
	URL          string                `json:"url"`
	Parameters   LinkupFetchParameters `json:"parameters"`
	Content      string                `json:"content"`
	Error        bool                  `json:"error"`
	OutputFormat string                `json:"output_format"`
	Timestamp    string                `json:"timestamp"`
}

// marshal encodes v without HTML escaping so URLs keep their literal "&"
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
