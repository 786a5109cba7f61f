package converter

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/young1lin/agent-web-search/internal/models"
)

// Linkup response keys. LinkupResultsKey is the only key read for the
// search-results list.
const (
	LinkupResultsKey = "results"
	linkupAnswerKey  = "answer"
	linkupSourcesKey = "sources"
)

// ConvertLinkupSearch normalizes a Linkup /search response into the branch
// selected by the requested output type.
func ConvertLinkupSearch(status int, body []byte, opts models.SearchOptions) (*models.LinkupSearchOutput, error) {
	if err := checkStatus(status, body); err != nil {
		return nil, err
	}

	out := &models.LinkupSearchOutput{
		Query:      opts.Query,
		Parameters: linkupParameters(opts),
		OutputType: opts.OutputType,
	}

	// Structured payloads follow a caller-defined schema that may itself
	// define an "error" field, so only explicit failure flags are honored.
	if opts.OutputType == models.OutputStructured {
		if err := flaggedError(status, body); err != nil {
			return nil, err
		}
		out.StructuredData = json.RawMessage(append([]byte(nil), body...))
		return out, nil
	}

	if err := embeddedError(status, body); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)

	if opts.OutputType == models.OutputSourcedAnswer {
		out.Answer = root.Get(linkupAnswerKey).String()
		sources := root.Get(linkupSourcesKey).Array()
		out.Sources = make([]models.LinkupSource, 0, min(len(sources), opts.NumResults))
		for i, s := range sources {
			if i >= opts.NumResults {
				break
			}
			out.Sources = append(out.Sources, models.LinkupSource{
				Name:    s.Get("name").String(),
				URL:     s.Get("url").String(),
				Content: s.Get("content").String(),
			})
		}
		return out, nil
	}

	items := root.Get(LinkupResultsKey).Array()
	out.TotalFound = len(items)
	out.Results = make([]models.LinkupResult, 0, min(len(items), opts.NumResults))
	for i, item := range items {
		if i >= opts.NumResults {
			break
		}
		out.Results = append(out.Results, models.LinkupResult{
			Name:    item.Get("name").String(),
			URL:     item.Get("url").String(),
			Content: item.Get("content").String(),
			Type:    models.LinkupSourceType,
		})
	}

	return out, nil
}

// ConvertLinkupFetch normalizes a Linkup /fetch response. Content comes from
// "content", or from the format's own key ("markdown" or "rawHtml") when the
// API returns that shape instead.
func ConvertLinkupFetch(status int, body []byte, opts models.FetchOptions) (*models.LinkupFetchOutput, error) {
	if err := checkStatus(status, body); err != nil {
		return nil, err
	}
	if err := embeddedError(status, body); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)

	content := root.Get("content")
	if !content.Exists() {
		if opts.Format == models.FormatHTML {
			content = root.Get("rawHtml")
		} else {
			content = root.Get("markdown")
		}
	}

	url := root.Get("url").String()
	if url == "" {
		url = opts.URL
	}
	format := root.Get("outputFormat").String()
	if format == "" {
		format = string(opts.Format)
	}

	return &models.LinkupFetchOutput{
		Mode: "fetch",
		URL:  url,
		Parameters: models.LinkupFetchParameters{
			OutputFormat: string(opts.Format),
			RenderJS:     opts.RenderJS,
		},
		Content:      content.String(),
		OutputFormat: format,
		Timestamp:    root.Get("timestamp").String(),
	}, nil
}

func linkupParameters(opts models.SearchOptions) models.LinkupParameters {
	return models.LinkupParameters{
		NumResultsRequested: opts.NumResults,
		Depth:               string(opts.Depth),
		OutputType:          string(opts.OutputType),
		FromDate:            opts.FromDateString(),
		ToDate:              opts.ToDateString(),
		IncludeDomains:      opts.IncludeDomains,
		ExcludeDomains:      opts.ExcludeDomains,
	}
}
