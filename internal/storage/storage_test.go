package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sq, err := storage.NewSQLStore(filepath.Join(t.TempDir(), "dwj.db"))
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]storage.Store{"file": fs, "sqlite": sq}
}

func TestGetMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var p model.ProjectConfig
			ok, err := s.Get(context.Background(), model.KeyProject, &p)
			if err != nil {
				t.Fatalf("Get on missing key: %v", err)
			}
			if ok {
				t.Error("Get reported a missing key as present")
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := model.ProjectConfig{Name: "Apollo", StartDate: "2026-01-01", EndDate: "2026-12-31"}
			if err := s.Set(ctx, model.KeyProject, want); err != nil {
				t.Fatalf("Set: %v", err)
			}
			want.Name = "Apollo II"
			if err := s.Set(ctx, model.KeyProject, want); err != nil {
				t.Fatalf("Set (overwrite): %v", err)
			}

			got, err := storage.Value(ctx, s, model.KeyProject, model.ProjectConfig{})
			if err != nil {
				t.Fatalf("Value: %v", err)
			}
			if got != want {
				t.Errorf("Value = %+v, want %+v", got, want)
			}
		})
	}
}

func TestRecordStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			created := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
			todos := []model.Todo{
				{ID: "t1", Text: "first", Priority: model.PriorityHigh, CreatedAt: created},
				{ID: "t2", Text: "second", Priority: model.PriorityLow, CreatedAt: created},
				{ID: "t3", Text: "third", Priority: model.PriorityMedium, CreatedAt: created},
			}
			for _, td := range todos {
				if err := s.SaveTo(ctx, model.StoreTodos, td.ID, td); err != nil {
					t.Fatalf("SaveTo %s: %v", td.ID, err)
				}
			}

			// Replace keeps position.
			todos[1].Completed = true
			if err := s.SaveTo(ctx, model.StoreTodos, "t2", todos[1]); err != nil {
				t.Fatalf("SaveTo (update): %v", err)
			}
			if err := s.DeleteFrom(ctx, model.StoreTodos, "t1"); err != nil {
				t.Fatalf("DeleteFrom: %v", err)
			}

			got, err := storage.Records[model.Todo](ctx, s, model.StoreTodos)
			if err != nil {
				t.Fatalf("Records: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("records = %d, want 2", len(got))
			}
			if got[0].ID != "t2" || !got[0].Completed {
				t.Errorf("first record = %+v, want completed t2", got[0])
			}
			if got[1].ID != "t3" {
				t.Errorf("second record = %q, want t3", got[1].ID)
			}
			if !got[1].CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", got[1].CreatedAt, created)
			}
		})
	}
}

func TestFileStoreCorruptStoreIsBackedUp(t *testing.T) {
	base := t.TempDir()
	s, err := storage.NewFileStore(base)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(base, "stores", "todos.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = s.GetAll(context.Background(), model.StoreTodos)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("GetAll error = %v, want ErrCorrupt", err)
	}
	if backups, _ := filepath.Glob(path + ".corrupt-*"); len(backups) != 1 {
		t.Errorf("backups = %v, want one after corrupt JSON", backups)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file was not moved aside")
	}
}

func TestFileStoreKeepsEveryCorruptBackup(t *testing.T) {
	base := t.TempDir()
	s, err := storage.NewFileStore(base)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(base, "kv", "exportSettings.json")
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
			t.Fatal(err)
		}
		var v map[string]any
		if _, err := s.Get(context.Background(), "exportSettings", &v); !errors.Is(err, storage.ErrCorrupt) {
			t.Fatalf("Get error = %v, want ErrCorrupt", err)
		}
	}
	if backups, _ := filepath.Glob(path + ".corrupt-*"); len(backups) != 2 {
		t.Errorf("backups = %v, want two", backups)
	}
}

func TestFileStoreRejectsPathNames(t *testing.T) {
	s, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), "../escape", 1); err == nil {
		t.Error("expected error for key containing a path")
	}
}
