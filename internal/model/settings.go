package model

import "time"

// Store keys and record-store names used by the persistence layer.
const (
	KeyProject            = "projectConfig"
	KeyChecklistHistory   = "checklistHistory"
	KeyChecklistTemplates = "checklistTemplates"
	KeyExportSettings     = "exportSettings"
	KeyExportHistory      = "exportHistory"

	StoreMilestones = "milestones"
	StoreTodos      = "todos"
	StoreMeetings   = "meetings"
)

// Section names that can be included in an export.
const (
	SectionRoadmap    = "roadmap"
	SectionChecklist  = "checklist"
	SectionTodos      = "todos"
	SectionMeetings   = "meetings"
	SectionStatistics = "statistics"
)

// AllSections lists every exportable section in collection order.
var AllSections = []string{
	SectionRoadmap,
	SectionChecklist,
	SectionTodos,
	SectionMeetings,
	SectionStatistics,
}

// MaxHistory is the number of export history records kept.
const MaxHistory = 50

// IncludeSections toggles the data sections of an export.
type IncludeSections struct {
	Roadmap    bool `json:"roadmap" yaml:"roadmap"`
	Checklist  bool `json:"checklist" yaml:"checklist"`
	Todos      bool `json:"todos" yaml:"todos"`
	Meetings   bool `json:"meetings" yaml:"meetings"`
	Statistics bool `json:"statistics" yaml:"statistics"`
}

// Enabled returns the names of the enabled sections in collection order.
func (s IncludeSections) Enabled() []string {
	var out []string
	for _, name := range AllSections {
		if s.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Has reports whether the named section is enabled.
func (s IncludeSections) Has(name string) bool {
	switch name {
	case SectionRoadmap:
		return s.Roadmap
	case SectionChecklist:
		return s.Checklist
	case SectionTodos:
		return s.Todos
	case SectionMeetings:
		return s.Meetings
	case SectionStatistics:
		return s.Statistics
	}
	return false
}

// SectionsFromNames builds an IncludeSections with only the named sections on.
// Unknown names are ignored.
func SectionsFromNames(names []string) IncludeSections {
	var s IncludeSections
	for _, n := range names {
		switch n {
		case SectionRoadmap:
			s.Roadmap = true
		case SectionChecklist:
			s.Checklist = true
		case SectionTodos:
			s.Todos = true
		case SectionMeetings:
			s.Meetings = true
		case SectionStatistics:
			s.Statistics = true
		}
	}
	return s
}

// ExportOptions are the boolean switches of the export dialog.
type ExportOptions struct {
	IncludeInsights    bool `json:"includeInsights" yaml:"includeInsights"`
	IncludeSummary     bool `json:"includeSummary" yaml:"includeSummary"`
	IncludeMetadata    bool `json:"includeMetadata" yaml:"includeMetadata"`
	DetailedFormatting bool `json:"detailedFormatting" yaml:"detailedFormatting"`
}

// CustomDateRange holds user supplied bounds as YYYY-MM-DD strings.
// Either bound may be empty.
type CustomDateRange struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

// ExportSettings are the persisted export defaults.
type ExportSettings struct {
	DefaultFormat   string          `json:"defaultFormat" yaml:"defaultFormat"`
	JournalTemplate string          `json:"journalTemplate" yaml:"journalTemplate"`
	DateFormat      string          `json:"dateFormat" yaml:"dateFormat"`
	Timezone        string          `json:"timezone" yaml:"timezone"`
	IncludeSections IncludeSections `json:"includeSections" yaml:"includeSections"`
	DateRange       string          `json:"dateRange" yaml:"dateRange"`
	CustomDateRange CustomDateRange `json:"customDateRange" yaml:"customDateRange"`
	ExportOptions   ExportOptions   `json:"exportOptions" yaml:"exportOptions"`
}

// DefaultExportSettings returns the settings used before anything was saved.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		DefaultFormat:   "txt",
		JournalTemplate: "auto",
		DateFormat:      "long",
		Timezone:        "UTC",
		IncludeSections: IncludeSections{
			Roadmap:    true,
			Checklist:  true,
			Todos:      true,
			Meetings:   true,
			Statistics: true,
		},
		DateRange: "last7days",
		ExportOptions: ExportOptions{
			IncludeInsights: true,
			IncludeSummary:  true,
			IncludeMetadata: true,
		},
	}
}

// ExportHistoryRecord describes one completed export.
type ExportHistoryRecord struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Timestamp  time.Time `json:"timestamp"`
	Format     string    `json:"format"`
	DateRange  string    `json:"dateRange"`
	Sections   []string  `json:"sections"`
	ItemCount  int       `json:"itemCount"`
	SaveMethod string    `json:"saveMethod,omitempty"`
}

// AppendHistory appends rec and keeps only the newest MaxHistory records.
func AppendHistory(history []ExportHistoryRecord, rec ExportHistoryRecord) []ExportHistoryRecord {
	history = append(history, rec)
	if len(history) > MaxHistory {
		history = append([]ExportHistoryRecord(nil), history[len(history)-MaxHistory:]...)
	}
	return history
}
