package render

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// frontMatter is the YAML block leading Markdown output.
type frontMatter struct {
	Title     string    `yaml:"title"`
	Generated time.Time `yaml:"generated"`
	Range     string    `yaml:"range"`
	Start     string    `yaml:"start"`
	End       string    `yaml:"end"`
	Timezone  string    `yaml:"timezone"`
	Template  string    `yaml:"template,omitempty"`
	Sections  []string  `yaml:"sections,omitempty"`
}

func formatMarkdown(doc journal.Document, c journal.Context) (string, error) {
	var b strings.Builder
	if c.Options.IncludeMetadata {
		fm, err := yaml.Marshal(frontMatter{
			Title:     documentTitle(doc),
			Generated: c.Now,
			Range:     c.RangeLabel,
			Start:     timecalc.DayKey(c.Range.Start),
			End:       timecalc.DayKey(c.Range.LastDay()),
			Timezone:  c.Timezone,
			Template:  c.Template,
			Sections:  c.Sections.Enabled(),
		})
		if err != nil {
			return "", fmt.Errorf("markdown front matter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(fm)
		b.WriteString("---\n\n")
	}

	for _, s := range doc {
		switch s.Kind {
		case journal.KindHeader:
			if text := s.Text(); text != "" {
				fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", headingLevel(s.Level, 1)), text)
			}
		case journal.KindSection:
			if s.Title != "" {
				fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", headingLevel(s.Level, 2)), s.Title)
			}
			for _, line := range s.Content {
				if strings.TrimSpace(line) == "" {
					continue
				}
				b.WriteString(line + "\n\n")
			}
		case journal.KindList:
			if len(s.Items) == 0 {
				continue
			}
			for i, item := range s.Items {
				if s.Ordered {
					fmt.Fprintf(&b, "%d. %s\n", i+1, item)
				} else {
					fmt.Fprintf(&b, "- %s\n", item)
				}
			}
			b.WriteString("\n")
		case journal.KindTable:
			if len(s.Headers) == 0 {
				continue
			}
			b.WriteString(tableRow(s.Headers))
			sep := make([]string, len(s.Headers))
			for i := range sep {
				sep[i] = "---"
			}
			b.WriteString(tableRow(sep))
			for _, row := range s.Rows {
				b.WriteString(tableRow(row))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func tableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return "| " + strings.Join(escaped, " | ") + " |\n"
}
