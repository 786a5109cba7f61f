package presenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/young1lin/agent-web-search/internal/models"
)

const (
	ruleWidth = 60

	// maxContentLen bounds Linkup content snippets in text mode
	maxContentLen = 200
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5555"))
)

// TextRenderer writes the human-readable layout. Styled adds terminal
// emphasis and must only be set when Out is a terminal.
type TextRenderer struct {
	Out    io.Writer
	Err    io.Writer
	Styled bool
}

func (r *TextRenderer) style(s lipgloss.Style, text string) string {
	if !r.Styled || text == "" {
		return text
	}
	return s.Render(text)
}

func (r *TextRenderer) banner(b *strings.Builder, lines ...string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(b, "\n%s\n", rule)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "%s\n\n", rule)
}

func (r *TextRenderer) flush(b *strings.Builder) error {
	_, err := io.WriteString(r.Out, b.String())
	return err
}

func (r *TextRenderer) BraveSearch(out *models.BraveSearchOutput) error {
	var b strings.Builder
	r.banner(&b,
		fmt.Sprintf("Brave Search Results for: %s", out.Query),
		fmt.Sprintf("Showing up to %d results", min(out.NumResultsRequested, models.BraveMaxCount)),
	)

	if len(out.Results) == 0 {
		b.WriteString("No results found.\n")
		return r.flush(&b)
	}

	for i, res := range out.Results {
		r.item(&b, i+1, res.Title, res.URL)
		if desc := collapseSpace(res.Description); desc != "" {
			fmt.Fprintf(&b, "   Description: %s\n", desc)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Total results displayed: %d\n", len(out.Results))

	return r.flush(&b)
}

func (r *TextRenderer) LinkupSearch(out *models.LinkupSearchOutput) error {
	var b strings.Builder
	r.banner(&b,
		fmt.Sprintf("Linkup Search Results for: %s", out.Query),
		fmt.Sprintf("Depth: %s, Output Type: %s", out.Parameters.Depth, out.Parameters.OutputType),
		fmt.Sprintf("Showing up to %d results", out.Parameters.NumResultsRequested),
	)

	switch out.OutputType {
	case models.OutputSourcedAnswer:
		fmt.Fprintf(&b, "Answer:\n%s\n\n", out.Answer)
		if len(out.Sources) > 0 {
			b.WriteString("Sources:\n")
			for i, s := range out.Sources {
				name := s.Name
				if name == "" {
					name = "Unknown"
				}
				fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, r.style(titleStyle, name), r.style(urlStyle, s.URL))
			}
		}

	case models.OutputStructured:
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, out.StructuredData, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(out.StructuredData)
		}
		b.Write(pretty.Bytes())
		b.WriteByte('\n')

	default:
		if len(out.Results) == 0 {
			b.WriteString("No results found.\n")
			return r.flush(&b)
		}
		for i, res := range out.Results {
			r.item(&b, i+1, res.Name, res.URL)
			if content := truncate(collapseSpace(res.Content), maxContentLen); content != "" {
				fmt.Fprintf(&b, "   Content: %s\n", content)
			}
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Total results displayed: %d\n", len(out.Results))
	}

	return r.flush(&b)
}

func (r *TextRenderer) LinkupFetch(out *models.LinkupFetchOutput) error {
	var b strings.Builder
	r.banner(&b,
		fmt.Sprintf("Fetching: %s", out.URL),
		fmt.Sprintf("Format: %s, Render JS: %t", out.Parameters.OutputFormat, out.Parameters.RenderJS),
	)

	rule := strings.Repeat("-", ruleWidth)
	fmt.Fprintf(&b, "URL: %s\n", r.style(urlStyle, out.URL))
	fmt.Fprintf(&b, "Format: %s\n", out.OutputFormat)
	fmt.Fprintf(&b, "Timestamp: %s\n", out.Timestamp)
	fmt.Fprintf(&b, "\n%s\n\n", rule)
	b.WriteString(out.Content)
	fmt.Fprintf(&b, "\n\n%s\n", rule)

	return r.flush(&b)
}

// Error writes a single line to the error stream
func (r *TextRenderer) Error(e *models.APIError) error {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("API returned status code %d: %s", e.StatusCode, e.Message)
	}
	msg = strings.Join(strings.Fields(msg), " ")

	w := r.Err
	if w == nil {
		w = r.Out
	}
	_, err := fmt.Fprintf(w, "%s %s\n", r.style(errorStyle, "Error:"), msg)
	return err
}

func (r *TextRenderer) item(b *strings.Builder, n int, title, url string) {
	if title == "" {
		title = "No title"
	}
	fmt.Fprintf(b, "%d. %s\n", n, r.style(titleStyle, title))
	fmt.Fprintf(b, "   URL: %s\n", r.style(urlStyle, url))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
