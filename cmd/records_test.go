package cmd

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/config"
	"github.com/Tiliavir/daily-work-journal/internal/model"
)

func TestMatchID(t *testing.T) {
	ids := []string{"3f2a9c10-aaaa", "3f2b0000-bbbb", "77c1d2e3-cccc"}
	tests := []struct {
		prefix  string
		want    int
		wantErr bool
	}{
		{"77c1", 2, false},
		{"3f2a", 0, false},
		{"3f2b0000-bbbb", 1, false},
		{"3f2", -1, true},
		{"ffff", -1, true},
		{"  ", -1, true},
	}
	for _, tt := range tests {
		got, err := matchID(ids, tt.prefix)
		if (err != nil) != tt.wantErr {
			t.Errorf("matchID(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("matchID(%q) = %d, want %d", tt.prefix, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"Ada", []string{"Ada"}},
		{"Ada, Bob ,,Eve", []string{"Ada", "Bob", "Eve"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]model.Priority{"low": model.PriorityLow, " High ": model.PriorityHigh, "MEDIUM": model.PriorityMedium} {
		got, err := parsePriority(in)
		if err != nil || got != want {
			t.Errorf("parsePriority(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := parsePriority("urgent"); err == nil {
		t.Error("expected an error for an unknown priority")
	}
}

func TestParseDayFlag(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	if got, err := parseDayFlag("date", "", now, tokyo); err != nil || got != "2026-10-19" {
		t.Errorf("empty value = %q, %v; want today in the zone", got, err)
	}
	if got, err := parseDayFlag("date", "2026-02-03", now, time.UTC); err != nil || got != "2026-02-03" {
		t.Errorf("parseDayFlag = %q, %v", got, err)
	}
	if _, err := parseDayFlag("date", "03.02.2026", now, time.UTC); exitCode(err) != 1 {
		t.Errorf("bad date exit code = %d, want 1", exitCode(err))
	}
}

func TestFixedRange(t *testing.T) {
	for _, v := range []string{"today", "last7days", "last30days", "all"} {
		if got, err := fixedRange(v); err != nil || got != v {
			t.Errorf("fixedRange(%q) = %q, %v", v, got, err)
		}
	}
	for _, v := range []string{"custom", "lastweek", ""} {
		if _, err := fixedRange(v); exitCode(err) != 1 || err == nil {
			t.Errorf("fixedRange(%q) error = %v, want a user error", v, err)
		}
	}
}

func TestChecklistIndex(t *testing.T) {
	d := model.DayChecklist{Items: []model.ChecklistItem{{ID: "aa11", Text: "one"}, {ID: "bb22", Text: "two"}}}
	if i, err := checklistIndex(d, "2"); err != nil || i != 1 {
		t.Errorf("by number = %d, %v", i, err)
	}
	if i, err := checklistIndex(d, "aa"); err != nil || i != 0 {
		t.Errorf("by id = %d, %v", i, err)
	}
	if _, err := checklistIndex(d, "3"); err == nil {
		t.Error("expected an error for an out of range number")
	}
}

func TestApplyTemplateSkipsExistingItems(t *testing.T) {
	items := []model.ChecklistItem{{ID: "x", Text: "Standup", Completed: true}}
	tpl := model.ChecklistTemplate{Name: "morning", Items: []string{"Standup", "Inbox zero", "Inbox zero"}}

	got := applyTemplate(items, tpl)
	if len(got) != 2 {
		t.Fatalf("items = %d, want 2", len(got))
	}
	if !got[0].Completed || got[1].Text != "Inbox zero" || got[1].ID == "" {
		t.Errorf("items = %+v", got)
	}
}

func TestScheduledSettings(t *testing.T) {
	s := model.DefaultExportSettings()
	got := scheduledSettings(s, config.ScheduleConfig{Format: "html", DateRange: "today"})
	if got.DefaultFormat != "html" || got.DateRange != "today" || got.JournalTemplate != s.JournalTemplate {
		t.Errorf("scheduledSettings = %+v", got)
	}
}

func TestPrintHistoryNewestFirst(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	history := []model.ExportHistoryRecord{
		{Filename: "old.txt", Timestamp: ts, Format: "txt"},
		{Filename: "mid.txt", Timestamp: ts, Format: "txt"},
		{Filename: "new.txt", Timestamp: ts, Format: "txt"},
	}
	var buf bytes.Buffer
	printHistory(&buf, history, 2)
	out := buf.String()

	if strings.Index(out, "new.txt") > strings.Index(out, "mid.txt") {
		t.Errorf("history not newest first:\n%s", out)
	}
	if strings.Contains(out, "old.txt") || !strings.Contains(out, "1 older") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestSyncWindow(t *testing.T) {
	now := time.Date(2026, 2, 27, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name             string
		date, from, to   string
		wantFrom, wantTo time.Time
		wantErr          bool
	}{
		{"default today", "", "", "", day(27), day(28), false},
		{"single date", "2026-02-20", "", "", day(20), day(21), false},
		{"from only", "", "2026-02-23", "", day(23), day(28), false},
		{"from and to", "", "2026-02-02", "2026-02-06", day(2), day(7), false},
		{"to without from", "", "", "2026-02-06", time.Time{}, time.Time{}, true},
		{"inverted", "", "2026-02-06", "2026-02-02", time.Time{}, time.Time{}, true},
		{"bad date", "27.02.2026", "", "", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		from, to, err := syncWindow(tt.date, tt.from, tt.to, now, time.UTC)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (!from.Equal(tt.wantFrom) || !to.Equal(tt.wantTo)) {
			t.Errorf("%s: window = [%s, %s), want [%s, %s)", tt.name, from, to, tt.wantFrom, tt.wantTo)
		}
	}
}
