package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-date format accepted for date filters
const DateLayout = "2006-01-02"

// Result count bounds and default
const (
	MinResults     = 1
	MaxResults     = 100
	DefaultResults = 10
)

// OutputMode selects the presenter
type OutputMode string

const (
	OutputText OutputMode = "text"
	OutputJSON OutputMode = "json"
)

// Depth is Linkup's search thoroughness
type Depth string

const (
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// OutputType selects the Linkup response shape. Values are the wire spellings.
type OutputType string

const (
	OutputSearchResults OutputType = "searchResults"
	OutputSourcedAnswer OutputType = "sourcedAnswer"
	OutputStructured    OutputType = "structured"
)

// FetchFormat is the content format requested from Linkup fetch
type FetchFormat string

const (
	FormatMarkdown FetchFormat = "markdown"
	FormatHTML     FetchFormat = "html"
)

// SearchOptions is the validated input of one search invocation. Linkup-only
// fields are left zero for Brave.
type SearchOptions struct {
	Query      string
	NumResults int
	Output     OutputMode

	Depth          Depth
	OutputType     OutputType
	FromDate       time.Time
	ToDate         time.Time
	IncludeDomains []string
	ExcludeDomains []string
	Schema         json.RawMessage
}

// FromDateString returns the from-date in wire format, or "" when unset
func (o SearchOptions) FromDateString() string {
	return formatDate(o.FromDate)
}

// ToDateString returns the to-date in wire format, or "" when unset
func (o SearchOptions) ToDateString() string {
	return formatDate(o.ToDate)
}

// FetchOptions is the validated input of one fetch invocation
type FetchOptions struct {
	URL      string
	Format   FetchFormat
	RenderJS bool
	Output   OutputMode
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
