package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

// Preview renders doc as styled terminal output. style is a glamour standard
// style name such as "auto", "dark" or "notty".
func Preview(doc journal.Document, c journal.Context, style string, width int) (string, error) {
	c.Options.IncludeMetadata = false
	md, err := formatMarkdown(doc, c)
	if err != nil {
		return "", err
	}
	if style == "" {
		style = "auto"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("preview renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	return out, nil
}
