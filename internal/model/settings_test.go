package model_test

import (
	"fmt"
	"testing"

	"github.com/Tiliavir/daily-work-journal/internal/model"
)

func TestAppendHistoryCaps(t *testing.T) {
	var history []model.ExportHistoryRecord
	for i := 1; i <= 51; i++ {
		history = model.AppendHistory(history, model.ExportHistoryRecord{ID: fmt.Sprintf("r%d", i)})
	}
	if len(history) != model.MaxHistory {
		t.Fatalf("len(history) = %d, want %d", len(history), model.MaxHistory)
	}
	if history[0].ID != "r2" {
		t.Errorf("oldest = %q, want %q (r1 evicted)", history[0].ID, "r2")
	}
	if history[len(history)-1].ID != "r51" {
		t.Errorf("newest = %q, want %q", history[len(history)-1].ID, "r51")
	}
}

func TestIncludeSectionsEnabled(t *testing.T) {
	s := model.SectionsFromNames([]string{"todos", "roadmap", "bogus"})
	got := s.Enabled()
	want := []string{"roadmap", "todos"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Enabled() = %v, want %v", got, want)
	}
	if s.Has("meetings") {
		t.Error("meetings should be disabled")
	}
}

func TestDayChecklistCompletedCount(t *testing.T) {
	d := model.DayChecklist{Items: []model.ChecklistItem{
		{Text: "a", Completed: true},
		{Text: "b"},
		{Text: "c", Completed: true},
	}}
	if got := d.CompletedCount(); got != 2 {
		t.Errorf("CompletedCount() = %d, want 2", got)
	}
}
