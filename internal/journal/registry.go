// Package journal turns a collected bundle into a format-agnostic Document
// through interchangeable templates.
package journal

import (
	"sort"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/model"
)

// Template names.
const (
	Auto      = "auto"
	Daily     = "daily"
	Weekly    = "weekly"
	Project   = "project"
	Executive = "executive"
	Detailed  = "detailed"
)

// ProcessFunc builds a document from a bundle. It never fails: missing or
// failed sections are reflected in the document.
type ProcessFunc func(b *collect.Bundle, c Context) Document

// Template is a named document strategy.
type Template struct {
	Name        string
	Description string
	Process     ProcessFunc
}

var templates = map[string]Template{
	Daily:     {Daily, "Today's tasks, meetings and checklist", processDaily},
	Weekly:    {Weekly, "Week overview with a per-day breakdown", processWeekly},
	Project:   {Project, "Milestones, tasks and project health", processProject},
	Executive: {Executive, "Key metrics and critical items", processExecutive},
	Detailed:  {Detailed, "Everything, plus additional analysis", processDetailed},
}

// Lookup returns the template registered under name.
func Lookup(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// Names returns the registered template names, sorted, followed by Auto.
func Names() []string {
	names := make([]string, 0, len(templates)+1)
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return append(names, Auto)
}

// AutoSelect picks a template for a range of the given length in days.
func AutoSelect(days int, format string, sections model.IncludeSections) string {
	switch {
	case days == 1:
		return Daily
	case days <= 7:
		return Weekly
	case sections.Roadmap:
		return Project
	case format == "html" && days > 30:
		return Executive
	default:
		return Detailed
	}
}
