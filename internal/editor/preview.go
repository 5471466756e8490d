package editor

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const minPreviewWidth = 40

// Renderer turns note markdown into terminal text for preview mode.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer wraps output at width columns. style is a glamour standard
// style name; "notty" gives plain text without escape codes.
func NewRenderer(width int, style string) (*Renderer, error) {
	if width < minPreviewWidth {
		width = minPreviewWidth
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{tr: tr}, nil
}

func (r *Renderer) Render(markdown string) (string, error) {
	return r.tr.Render(markdown)
}
