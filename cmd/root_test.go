package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/daily-work-journal/internal/config"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	teardown()
	return err
}

func TestAddAndExport(t *testing.T) {
	logs.Discard()
	t.Setenv(config.EnvDataDir, "")
	dataDir := t.TempDir()
	outDir := t.TempDir()

	if err := run(t, "--data-dir", dataDir, "add", "todo", "Write", "release", "notes", "--priority", "high"); err != nil {
		t.Fatalf("add todo: %v", err)
	}

	err := run(t, "--data-dir", dataDir, "export", "--format", "htm", "-o", outDir, "-q")
	if !errors.Is(err, export.ErrUnknownFormat) {
		t.Fatalf("export with bad format: err = %v, want ErrUnknownFormat", err)
	}
	if code := exitCode(err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	if err := run(t, "--data-dir", dataDir, "export", "--format", "json", "--range", "today", "-o", outDir, "-q"); err != nil {
		t.Fatalf("export: %v", err)
	}
	files, _ := filepath.Glob(filepath.Join(outDir, export.FilePrefix+"_*.json"))
	if len(files) != 1 {
		t.Fatalf("exported files = %v, want one JSON file", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if _, ok := payload["journal"]; !ok {
		t.Errorf("export has no journal: %s", data)
	}

	s, err := storage.NewFileStore(dataDir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	history, err := export.LoadHistory(ctx, s)
	if err != nil || len(history) != 1 {
		t.Fatalf("history = %v, %v; want one record", history, err)
	}
	if history[0].Filename != filepath.Base(files[0]) {
		t.Errorf("history filename = %q, want %q", history[0].Filename, filepath.Base(files[0]))
	}
	if history[0].ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", history[0].ItemCount)
	}
	saved, err := export.LoadSettings(ctx, s)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if saved.DefaultFormat != "json" || saved.DateRange != "today" {
		t.Errorf("saved settings = %+v", saved)
	}
	todos, err := storage.Records[model.Todo](ctx, s, model.StoreTodos)
	if err != nil || len(todos) != 1 || todos[0].Text != "Write release notes" {
		t.Errorf("todos = %+v, %v", todos, err)
	}
}

func TestExitCodes(t *testing.T) {
	if got := exitCode(ioErr(errors.New("disk"))); got != 2 {
		t.Errorf("ioErr exit code = %d, want 2", got)
	}
	if got := exitCode(failed(&export.ConfigError{Err: export.ErrUnknownTemplate})); got != 1 {
		t.Errorf("config error exit code = %d, want 1", got)
	}
	if got := exitCode(failed(errors.New("rename failed"))); got != 2 {
		t.Errorf("save error exit code = %d, want 2", got)
	}
	if got := exitCode(errors.New("unknown flag")); got != 1 {
		t.Errorf("plain error exit code = %d, want 1", got)
	}
}
