package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

var now = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type memSaver struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memSaver) Save(_ context.Context, content, filename, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string]string{}
	}
	m.files[filename] = content
	return "memory", nil
}

type failSaver struct{}

func (failSaver) Save(context.Context, string, string, string) (string, error) {
	return "", errors.New("disk full")
}

// blockingSaver holds the export in the Saving state until released.
type blockingSaver struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingSaver) Save(context.Context, string, string, string) (string, error) {
	close(b.entered)
	<-b.release
	return "blocked", nil
}

func newStore(t *testing.T) storage.Store {
	t.Helper()
	logs.Discard()
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.SaveTo(ctx, model.StoreTodos, "a",
		model.Todo{ID: "a", Text: "A", Completed: true, Priority: model.PriorityHigh, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.SaveTo(ctx, model.StoreTodos, "b",
		model.Todo{ID: "b", Text: "B", Priority: model.PriorityLow, CreatedAt: now.Add(-time.Hour)}))
	return s
}

func todaySettings(format string) model.ExportSettings {
	s := model.DefaultExportSettings()
	s.DefaultFormat = format
	s.DateRange = daterange.Today
	return s
}

func TestExportWritesFileAndHistory(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	var states []export.State
	e := export.New(store, export.DirSaver{Dir: dir},
		export.WithClock(clock),
		export.WithProgress(func(p export.Progress) { states = append(states, p.State) }))

	res, err := e.Export(context.Background(), todaySettings("txt"))
	require.NoError(t, err)

	assert.Equal(t, "daily", res.Template)
	assert.Equal(t, "daily-work-journal_2026-10-18.txt", res.Filename)
	assert.Equal(t, export.MethodFileSystem, res.SaveMethod)
	assert.Equal(t, []export.State{export.CollectingData, export.Formatting, export.Saving, export.Complete}, states)
	assert.Equal(t, export.Complete, e.State())

	data, err := os.ReadFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tasks: 1/2 completed")

	ctx := context.Background()
	history, err := export.LoadHistory(ctx, store)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.Filename, history[0].Filename)
	assert.Equal(t, "txt", history[0].Format)
	assert.Equal(t, daterange.Today, history[0].DateRange)
	assert.Equal(t, 2, history[0].ItemCount)
	assert.Equal(t, model.AllSections, history[0].Sections)
	assert.NotEmpty(t, history[0].ID)

	saved, err := export.LoadSettings(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, daterange.Today, saved.DateRange)
}

func TestAutoTemplateIsDailyOnDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	at := time.Date(2026, 10, 25, 12, 0, 0, 0, berlin)
	e := export.New(newStore(t), &memSaver{}, export.WithClock(func() time.Time { return at }))

	settings := todaySettings("txt")
	settings.Timezone = "Europe/Berlin"
	res, err := e.Export(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, "daily", res.Template)
	assert.Equal(t, "daily-work-journal_2026-10-25.txt", res.Filename)
}

func TestExportRejectsConcurrentRuns(t *testing.T) {
	store := newStore(t)
	saver := blockingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	e := export.New(store, saver, export.WithClock(clock))

	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background(), todaySettings("json"))
		done <- err
	}()
	<-saver.entered

	assert.Equal(t, export.Saving, e.State())
	_, err := e.Export(context.Background(), todaySettings("json"))
	assert.ErrorIs(t, err, export.ErrExportInProgress)

	close(saver.release)
	require.NoError(t, <-done)
	assert.Equal(t, export.Complete, e.State())
}

func TestExportConfigErrors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*model.ExportSettings)
		sentinel   error
		suggestion string
	}{
		{"format", func(s *model.ExportSettings) { s.DefaultFormat = "htm" }, export.ErrUnknownFormat, "html"},
		{"template", func(s *model.ExportSettings) { s.JournalTemplate = "exec" }, export.ErrUnknownTemplate, "executive"},
		{"timezone", func(s *model.ExportSettings) { s.Timezone = "Mars/Olympus" }, export.ErrInvalidSetting, ""},
		{"range keyword", func(s *model.ExportSettings) { s.DateRange = "last7day" }, export.ErrInvalidSetting, "last7days"},
		{"unrelated range keyword", func(s *model.ExportSettings) { s.DateRange = "lastweek" }, export.ErrInvalidSetting, ""},
		{"custom range", func(s *model.ExportSettings) {
			s.DateRange = daterange.Custom
			s.CustomDateRange.Start = "yesterday"
		}, export.ErrInvalidSetting, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			saver := &memSaver{}
			var last export.Progress
			e := export.New(store, saver, export.WithClock(clock),
				export.WithProgress(func(p export.Progress) { last = p }))

			settings := todaySettings("txt")
			tt.mutate(&settings)
			_, err := e.Export(context.Background(), settings)

			require.ErrorIs(t, err, tt.sentinel)
			var cfgErr *export.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.suggestion, cfgErr.Suggestion)

			assert.Empty(t, saver.files)
			assert.Equal(t, export.Failed, e.State())
			assert.Equal(t, export.Failed, last.State)
			assert.Equal(t, err.Error(), last.Message)

			ok, err := store.Get(context.Background(), model.KeyExportSettings, &model.ExportSettings{})
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFailedSaveLeavesSettingsAndHistoryUntouched(t *testing.T) {
	store := newStore(t)
	e := export.New(store, export.FallbackSaver{Primary: failSaver{}, Secondary: failSaver{}}, export.WithClock(clock))

	_, err := e.Export(context.Background(), todaySettings("csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, export.Failed, e.State())

	ctx := context.Background()
	history, err := export.LoadHistory(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, history)
	ok, err := store.Get(ctx, model.KeyExportSettings, &model.ExportSettings{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryIsCapped(t *testing.T) {
	store := newStore(t)
	e := export.New(store, &memSaver{}, export.WithClock(clock))
	ctx := context.Background()

	var first string
	for i := 0; i < model.MaxHistory+1; i++ {
		res, err := e.Export(ctx, todaySettings("json"))
		require.NoError(t, err)
		if i == 0 {
			first = res.Record.ID
		}
	}
	history, err := export.LoadHistory(ctx, store)
	require.NoError(t, err)
	assert.Len(t, history, model.MaxHistory)
	for _, rec := range history {
		assert.NotEqual(t, first, rec.ID)
	}
}

func TestAutoTemplateFollowsRange(t *testing.T) {
	store := newStore(t)
	e := export.New(store, &memSaver{}, export.WithClock(clock))

	settings := todaySettings("markdown")
	settings.DateRange = daterange.Last30Days
	draft, err := e.Prepare(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, "project", draft.Template)
	assert.Equal(t, "daily-work-journal_2026-09-18_to_2026-10-18.md", draft.Filename)
	assert.Equal(t, export.Idle, e.State())
}

func TestFilename(t *testing.T) {
	today := daterange.Resolve(daterange.Today, daterange.Bounds{}, now, time.UTC)
	week := daterange.Resolve(daterange.Last7Days, daterange.Bounds{}, now, time.UTC)
	assert.Equal(t, "daily-work-journal_2026-10-18.html", export.Filename(today, ".html"))
	assert.Equal(t, "daily-work-journal_2026-10-11_to_2026-10-18.csv", export.Filename(week, ".csv"))
}
