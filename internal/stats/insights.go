package stats

import "fmt"

// InsightType classifies an insight.
type InsightType string

const (
	Success InsightType = "success"
	Warning InsightType = "warning"
	Info    InsightType = "info"
)

// Insight is a qualitative observation about an export range.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Message  string      `json:"message"`
	Icon     string      `json:"icon"`
}

// Insight thresholds.
const (
	checklistGood   = 80
	checklistPoor   = 50
	todoGood        = 75
	todoLow         = 40
	meetingHeavyMin = 480
	extendedDays    = 30
)

// GenerateInsights evaluates every rule against s in a fixed order and returns
// all that match. Checklist and todo rates are only judged when there is
// something to rate.
func GenerateInsights(s Statistics, rangeDays int) []Insight {
	var out []Insight

	// An empty checklist has a 0% rate; it is not a low one.
	if s.Checklist.TotalItems > 0 {
		switch rate := s.Checklist.AverageCompletion; {
		case rate >= checklistGood:
			out = append(out, Insight{Success, "Productivity",
				fmt.Sprintf("Excellent checklist completion rate of %d%%", rate), "✅"})
		case rate < checklistPoor:
			out = append(out, Insight{Warning, "Productivity",
				fmt.Sprintf("Checklist completion is low at %d%%; consider trimming daily items", rate), "⚠️"})
		}
	}

	// Likewise for a range without todos.
	if s.Todos.Total > 0 {
		switch rate := s.Todos.CompletionRate; {
		case rate >= todoGood:
			out = append(out, Insight{Success, "Tasks",
				fmt.Sprintf("Strong task completion rate of %d%%", rate), "🎯"})
		case rate < todoLow:
			out = append(out, Insight{Info, "Tasks",
				fmt.Sprintf("Task completion rate is %d%%; %d tasks still pending", rate, s.Todos.Pending), "📝"})
		}
	}

	if s.Todos.HighPriority > s.Todos.Completed {
		out = append(out, Insight{Warning, "Priorities",
			fmt.Sprintf("%d high-priority tasks outnumber the %d completed tasks", s.Todos.HighPriority, s.Todos.Completed), "🔥"})
	}

	if s.Meetings.TotalDuration > meetingHeavyMin {
		out = append(out, Insight{Info, "Meetings",
			fmt.Sprintf("%d hours spent in meetings", s.Meetings.TotalDuration/60), "📅"})
	}

	switch {
	case rangeDays == 1:
		out = append(out, Insight{Info, "Scope", "Single day snapshot", "📌"})
	case rangeDays == 7:
		out = append(out, Insight{Info, "Scope", "Weekly summary", "🗓️"})
	case rangeDays > extendedDays:
		out = append(out, Insight{Info, "Scope",
			fmt.Sprintf("Extended period analysis covering %d days", rangeDays), "📈"})
	}

	return out
}
