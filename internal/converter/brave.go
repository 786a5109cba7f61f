package converter

import (
	"github.com/tidwall/gjson"

	"github.com/young1lin/agent-web-search/internal/models"
)

// braveResultsPath locates the web results in a Brave search response
const braveResultsPath = "web.results"

// ConvertBraveSearch normalizes a Brave web search response. A missing
// results list is a successful empty search.
func ConvertBraveSearch(status int, body []byte, opts models.SearchOptions) (*models.BraveSearchOutput, error) {
	if err := checkStatus(status, body); err != nil {
		return nil, err
	}
	if err := embeddedError(status, body); err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, braveResultsPath).Array()

	out := &models.BraveSearchOutput{
		Query:               opts.Query,
		NumResultsRequested: opts.NumResults,
		NumResultsFound:     len(items),
		Results:             make([]models.BraveResult, 0, min(len(items), opts.NumResults)),
	}

	for i, item := range items {
		if i >= opts.NumResults {
			break
		}
		out.Results = append(out.Results, models.BraveResult{
			Title:       item.Get("title").String(),
			URL:         item.Get("url").String(),
			Description: item.Get("description").String(),
			Engine:      models.EngineBrave,
		})
	}

	return out, nil
}
