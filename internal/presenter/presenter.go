// Package presenter renders normalized search output as text or JSON.
package presenter

import (
	"encoding/json"
	"io"

	"github.com/young1lin/agent-web-search/internal/models"
)

// Renderer writes exactly one rendering per call
type Renderer interface {
	BraveSearch(out *models.BraveSearchOutput) error
	LinkupSearch(out *models.LinkupSearchOutput) error
	LinkupFetch(out *models.LinkupFetchOutput) error
	Error(e *models.APIError) error
}

// New returns the renderer for mode. Text errors go to stderr; JSON errors
// are documents on stdout like any other result.
func New(mode models.OutputMode, stdout, stderr io.Writer, styled bool) Renderer {
	if mode == models.OutputJSON {
		return &JSONRenderer{Out: stdout}
	}
	return &TextRenderer{Out: stdout, Err: stderr, Styled: styled}
}

// JSONRenderer emits one indented JSON document per call
type JSONRenderer struct {
	Out io.Writer
}

func (r *JSONRenderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (r *JSONRenderer) BraveSearch(out *models.BraveSearchOutput) error {
	return r.encode(out)
}

func (r *JSONRenderer) LinkupSearch(out *models.LinkupSearchOutput) error {
	return r.encode(out)
}

func (r *JSONRenderer) LinkupFetch(out *models.LinkupFetchOutput) error {
	return r.encode(out)
}

func (r *JSONRenderer) Error(e *models.APIError) error {
	return r.encode(e)
}
