package cli

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/models"
)

// listFlags take one or more values after a single flag occurrence
var listFlags = map[string]bool{
	"--include-domains": true,
	"--exclude-domains": true,
}

// expandListFlags rewrites "--include-domains a b" into repeated flag
// occurrences so pflag sees one value per flag. Values are consumed until
// the next dash-prefixed token; "--" ends all flag processing.
func expandListFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if !listFlags[arg] {
			out = append(out, arg)
			continue
		}

		out = append(out, arg)
		consumed := 0
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			if consumed > 0 {
				out = append(out, arg)
			}
			i++
			out = append(out, args[i])
			consumed++
		}
	}
	return out
}

// domainList is a repeatable flag value that also splits comma lists
type domainList struct {
	values *[]string
}

var _ pflag.Value = (*domainList)(nil)

func newDomainList(p *[]string) *domainList {
	return &domainList{values: p}
}

func (d *domainList) String() string {
	if d.values == nil {
		return ""
	}
	return strings.Join(*d.values, ",")
}

func (d *domainList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*d.values = append(*d.values, part)
		}
	}
	return nil
}

func (d *domainList) Type() string {
	return "domains"
}

func outputMode(asJSON bool) models.OutputMode {
	if asJSON {
		return models.OutputJSON
	}
	return models.OutputText
}

func parseQuery(args []string) (string, error) {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return "", apperr.Validation("query", "search query must not be empty")
	}
	return q, nil
}

func parseNumResults(n int) (int, error) {
	if n < models.MinResults {
		return 0, apperr.Validation("--num-results", "number of results must be at least %d", models.MinResults)
	}
	if n > models.MaxResults {
		return 0, apperr.Validation("--num-results", "number of results cannot exceed %d", models.MaxResults)
	}
	return n, nil
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation(flag, "%q is not a date, use YYYY-MM-DD", value)
	}
	return t, nil
}

func parseDepth(value string) (models.Depth, error) {
	switch d := models.Depth(strings.ToLower(strings.TrimSpace(value))); d {
	case models.DepthStandard, models.DepthDeep:
		return d, nil
	}
	return "", apperr.Validation("--depth", "%q is not one of standard, deep", value)
}

// parseOutputType accepts the wire spelling as well as hyphenated and
// underscored forms such as "sourced-answer".
func parseOutputType(value string) (models.OutputType, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(value)))
	switch key {
	case "searchresults":
		return models.OutputSearchResults, nil
	case "sourcedanswer":
		return models.OutputSourcedAnswer, nil
	case "structured":
		return models.OutputStructured, nil
	}
	return "", apperr.Validation("--output-type", "%q is not one of searchResults, sourcedAnswer, structured", value)
}

func parseFetchFormat(value string) (models.FetchFormat, error) {
	switch f := models.FetchFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case models.FormatMarkdown, models.FormatHTML:
		return f, nil
	}
	return "", apperr.Validation("--output-format", "%q is not one of markdown, html", value)
}

func parseURL(args []string) (string, error) {
	if len(args) != 1 {
		return "", apperr.Validation("url", "expected exactly one URL, got %d arguments", len(args))
	}
	raw := strings.TrimSpace(args[0])
	if raw == "" {
		return "", apperr.Validation("url", "URL must not be empty")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.Validation("url", "%q is not an absolute http or https URL", raw)
	}
	return raw, nil
}

// parseSchema accepts inline JSON or "@path" naming a file holding it
func parseSchema(value string) (json.RawMessage, error) {
	if value == "" {
		return nil, nil
	}

	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, apperr.Validation("--schema", "cannot read schema file: %v", err)
		}
	}

	if !json.Valid(data) {
		return nil, apperr.Validation("--schema", "schema is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// searchFlags holds the raw flag values of a Linkup search
type searchFlags struct {
	numResults     int
	depth          string
	outputType     string
	fromDate       string
	toDate         string
	includeDomains []string
	excludeDomains []string
	schema         string
}

func (f *searchFlags) options(args []string, mode models.OutputMode) (models.SearchOptions, error) {
	opts := models.SearchOptions{Output: mode}

	var err error
	if opts.Query, err = parseQuery(args); err != nil {
		return opts, err
	}
	if opts.NumResults, err = parseNumResults(f.numResults); err != nil {
		return opts, err
	}
	if opts.Depth, err = parseDepth(f.depth); err != nil {
		return opts, err
	}
	if opts.OutputType, err = parseOutputType(f.outputType); err != nil {
		return opts, err
	}
	if opts.FromDate, err = parseDate("--from-date", f.fromDate); err != nil {
		return opts, err
	}
	if opts.ToDate, err = parseDate("--to-date", f.toDate); err != nil {
		return opts, err
	}
	if !opts.FromDate.IsZero() && !opts.ToDate.IsZero() && opts.FromDate.After(opts.ToDate) {
		return opts, apperr.Validation("--from-date", "%s is after --to-date %s", f.fromDate, f.toDate)
	}
	if opts.Schema, err = parseSchema(f.schema); err != nil {
		return opts, err
	}

	opts.IncludeDomains = f.includeDomains
	opts.ExcludeDomains = f.excludeDomains

	return opts, nil
}
