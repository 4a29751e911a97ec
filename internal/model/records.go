package model

import "time"

// Priority is the urgency of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ProjectConfig describes the project the roadmap belongs to.
// StartDate and EndDate are calendar days in YYYY-MM-DD form.
type ProjectConfig struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// Milestone is a dated roadmap point.
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Todo is a single task item.
type Todo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     string     `json:"dueDate,omitempty"` // YYYY-MM-DD
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Meeting is a scheduled meeting. Date is YYYY-MM-DD, Time is HH:MM.
type Meeting struct {
	ID          string   `json:"id"`
	ExternalID  string   `json:"externalId,omitempty"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time,omitempty"`
	Completed   bool     `json:"completed"`
	Attendees   []string `json:"attendees,omitempty"`
	Duration    int      `json:"duration,omitempty"` // minutes
	Notes       string   `json:"notes,omitempty"`
	ActionItems []string `json:"actionItems,omitempty"`
}

// ChecklistItem is one line of a daily checklist.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// DayChecklist is the checklist state recorded for one calendar day.
type DayChecklist struct {
	Date  string          `json:"date"`
	Items []ChecklistItem `json:"items"`
}

// CompletedCount returns how many items of the day are done.
func (d DayChecklist) CompletedCount() int {
	n := 0
	for _, it := range d.Items {
		if it.Completed {
			n++
		}
	}
	return n
}

// ChecklistTemplate is a reusable set of checklist items.
type ChecklistTemplate struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}
