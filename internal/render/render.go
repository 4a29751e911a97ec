// Package render encodes a journal Document as text, Markdown, HTML, JSON or
// CSV.
package render

import (
	"sort"
	"strings"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

// Format names.
const (
	Text     = "txt"
	Markdown = "markdown"
	HTML     = "html"
	JSON     = "json"
	CSV      = "csv"
)

// FormatFunc encodes a document.
type FormatFunc func(doc journal.Document, c journal.Context) (string, error)

// Renderer is a named output encoding.
type Renderer struct {
	Name      string
	Extension string
	MimeType  string
	Format    FormatFunc
}

var renderers = map[string]Renderer{
	Text:     {Text, ".txt", "text/plain", formatText},
	Markdown: {Markdown, ".md", "text/markdown", formatMarkdown},
	HTML:     {HTML, ".html", "text/html", formatHTML},
	JSON:     {JSON, ".json", "application/json", formatJSON},
	CSV:      {CSV, ".csv", "text/csv", formatCSV},
}

var aliases = map[string]string{
	"text": Text,
	"md":   Markdown,
}

// Lookup returns the renderer registered under name or one of its aliases.
func Lookup(name string) (Renderer, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	r, ok := renderers[name]
	return r, ok
}

// Names returns the registered format names, sorted.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for n := range renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// documentTitle is the text of the first header, if any.
func documentTitle(doc journal.Document) string {
	for _, s := range doc {
		if s.Kind == journal.KindHeader {
			return s.Text()
		}
	}
	return "Daily Work Journal"
}

func headingLevel(level, def int) int {
	if level <= 0 {
		return def
	}
	return level
}
