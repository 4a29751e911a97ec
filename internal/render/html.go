package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

var boldRE = regexp.MustCompile(`\*\*(.+?)\*\*`)

const pageStyle = `body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;line-height:1.6;color:#1f2933;max-width:860px;margin:0 auto;padding:2rem;background:#fff}
h1{border-bottom:3px solid #3b82f6;padding-bottom:.4rem}
h2{border-bottom:1px solid #e5e7eb;padding-bottom:.2rem;margin-top:2rem}
table{border-collapse:collapse;width:100%;margin:1rem 0}
th,td{border:1px solid #d1d5db;padding:.4rem .6rem;text-align:left}
th{background:#f3f4f6}
ul,ol{padding-left:1.5rem}
footer{margin-top:3rem;font-size:.8rem;color:#6b7280}
@media print{body{max-width:none;padding:0;font-size:11pt}h1,h2,h3{page-break-after:avoid}table,ul,ol{page-break-inside:avoid}footer{display:none}}`

// inline escapes s and renders **bold** markers.
func inline(s string) string {
	return boldRE.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}

func clampHeading(level, def int) int {
	return min(headingLevel(level, def), 6)
}

func formatHTML(doc journal.Document, c journal.Context) (string, error) {
	var body strings.Builder
	for _, s := range doc {
		switch s.Kind {
		case journal.KindHeader:
			if len(s.Content) == 0 {
				continue
			}
			l := clampHeading(s.Level, 1)
			fmt.Fprintf(&body, "<h%d>%s</h%d>\n", l, inline(s.Text()), l)
		case journal.KindSection:
			body.WriteString("<section>\n")
			if s.Title != "" {
				l := clampHeading(s.Level, 2)
				fmt.Fprintf(&body, "<h%d>%s</h%d>\n", l, inline(s.Title), l)
			}
			for _, line := range s.Content {
				if strings.TrimSpace(line) == "" {
					body.WriteString("<br>\n")
					continue
				}
				fmt.Fprintf(&body, "<p>%s</p>\n", inline(line))
			}
			body.WriteString("</section>\n")
		case journal.KindList:
			if len(s.Items) == 0 {
				continue
			}
			tag := "ul"
			if s.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(&body, "<%s>\n", tag)
			for _, item := range s.Items {
				fmt.Fprintf(&body, "<li>%s</li>\n", inline(item))
			}
			fmt.Fprintf(&body, "</%s>\n", tag)
		case journal.KindTable:
			if len(s.Headers) == 0 && len(s.Rows) == 0 {
				continue
			}
			body.WriteString("<table>\n")
			if len(s.Headers) > 0 {
				body.WriteString("<thead><tr>")
				for _, h := range s.Headers {
					fmt.Fprintf(&body, "<th>%s</th>", inline(h))
				}
				body.WriteString("</tr></thead>\n")
			}
			body.WriteString("<tbody>\n")
			for _, row := range s.Rows {
				body.WriteString("<tr>")
				for _, cell := range row {
					fmt.Fprintf(&body, "<td>%s</td>", inline(cell))
				}
				body.WriteString("</tr>\n")
			}
			body.WriteString("</tbody>\n</table>\n")
		}
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(documentTitle(doc)))
	fmt.Fprintf(&page, "<style>\n%s\n</style>\n</head>\n<body>\n<main class=\"journal\">\n", pageStyle)
	page.WriteString(body.String())
	page.WriteString("</main>\n")
	fmt.Fprintf(&page, "<footer>Generated %s</footer>\n",
		html.EscapeString(c.Now.In(c.Location()).Format("2006-01-02 15:04 MST")))
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
