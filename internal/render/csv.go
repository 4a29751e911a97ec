package render

import (
	"strings"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

const csvHeader = "Section,Type,Content,Details"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// formatCSV writes one row per leaf content item. The section column carries
// the most recent header or section title.
func formatCSV(doc journal.Document, _ journal.Context) (string, error) {
	var b strings.Builder
	b.WriteString(csvHeader + "\n")

	name := ""
	row := func(kind journal.Kind, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		b.WriteString(csvField(name) + "," + csvField(string(kind)) + "," + csvField(content) + "," + csvField("") + "\n")
	}

	for _, s := range doc {
		switch s.Kind {
		case journal.KindHeader:
			name = s.Text()
			row(s.Kind, s.Text())
		case journal.KindSection:
			if s.Title != "" {
				name = s.Title
			}
			for _, line := range s.Content {
				row(s.Kind, line)
			}
		case journal.KindList:
			for _, item := range s.Items {
				row(s.Kind, item)
			}
		case journal.KindTable:
			if len(s.Headers) > 0 {
				row(s.Kind, strings.Join(s.Headers, " | "))
			}
			for _, r := range s.Rows {
				row(s.Kind, strings.Join(r, " | "))
			}
		}
	}
	return b.String(), nil
}

// csvField quotes v, doubling embedded quotes and collapsing newlines.
func csvField(v string) string {
	v = newlines.Replace(v)
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
