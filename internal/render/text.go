package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

func formatText(doc journal.Document, _ journal.Context) (string, error) {
	var b strings.Builder
	for _, s := range doc {
		switch s.Kind {
		case journal.KindHeader:
			text := plain(s.Text())
			if text == "" {
				continue
			}
			mark := "-"
			if headingLevel(s.Level, 1) == 1 {
				mark = "="
			}
			fmt.Fprintf(&b, "%s\n%s\n\n", text, underline(text, mark))
		case journal.KindSection:
			if s.Title != "" {
				fmt.Fprintf(&b, "%s\n%s\n", s.Title, underline(s.Title, "-"))
			}
			for _, line := range s.Content {
				b.WriteString(plain(line) + "\n")
			}
			b.WriteString("\n")
		case journal.KindList:
			if len(s.Items) == 0 {
				continue
			}
			for i, item := range s.Items {
				if s.Ordered {
					fmt.Fprintf(&b, "%d. %s\n", i+1, plain(item))
				} else {
					fmt.Fprintf(&b, "• %s\n", plain(item))
				}
			}
			b.WriteString("\n")
		case journal.KindTable:
			if len(s.Headers) == 0 && len(s.Rows) == 0 {
				continue
			}
			if len(s.Headers) > 0 {
				b.WriteString(strings.Join(s.Headers, " | ") + "\n")
				sep := make([]string, len(s.Headers))
				for i := range sep {
					sep[i] = "---"
				}
				b.WriteString(strings.Join(sep, " | ") + "\n")
			}
			for _, row := range s.Rows {
				b.WriteString(strings.Join(row, " | ") + "\n")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func underline(text, mark string) string {
	return strings.Repeat(mark, utf8.RuneCountInString(text))
}

// plain drops **bold** markers.
func plain(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
