package journal

import "strings"

// Kind is the variant of a document section.
type Kind string

const (
	KindHeader  Kind = "header"
	KindSection Kind = "section"
	KindList    Kind = "list"
	KindTable   Kind = "table"
)

// Section is one typed block of a Document. Which fields are set depends on
// Kind: headers use Level and Content, sections Title, Level and Content, lists
// Ordered and Items, tables Headers and Rows.
type Section struct {
	Kind    Kind       `json:"type"`
	Level   int        `json:"level,omitempty"`
	Title   string     `json:"title,omitempty"`
	Content []string   `json:"content,omitempty"`
	Ordered bool       `json:"ordered,omitempty"`
	Items   []string   `json:"items,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Document is the format-agnostic output of a template.
type Document []Section

// Text returns the content lines joined by newlines.
func (s Section) Text() string {
	return strings.Join(s.Content, "\n")
}

// NewHeader builds a header section.
func NewHeader(level int, text string) Section {
	return Section{Kind: KindHeader, Level: level, Content: lines(text)}
}

// NewSection builds a titled section. Either title or content may be empty.
func NewSection(title string, level int, content ...string) Section {
	return Section{Kind: KindSection, Title: title, Level: level, Content: lines(content...)}
}

// NewList builds a bulleted or numbered list.
func NewList(ordered bool, items ...string) Section {
	return Section{Kind: KindList, Ordered: ordered, Items: lines(items...)}
}

// NewTable builds a table.
func NewTable(headers []string, rows [][]string) Section {
	t := Section{Kind: KindTable, Headers: lines(headers...)}
	if len(rows) > 0 {
		t.Rows = rows
	}
	return t
}

// lines normalizes empty input to nil so documents survive a JSON round trip
// unchanged.
func lines(s ...string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// WithoutHeaders drops the header sections of d.
func (d Document) WithoutHeaders() Document {
	var out Document
	for _, s := range d {
		if s.Kind != KindHeader {
			out = append(out, s)
		}
	}
	return out
}
