// Package export runs the journal export pipeline: resolve the range, collect
// the records, apply a template, render and save.
package export

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/daily-work-journal/internal/collect"
	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/journal"
	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/render"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

// State is a step of an export.
type State string

const (
	Idle           State = "idle"
	CollectingData State = "collecting"
	Formatting     State = "formatting"
	Saving         State = "saving"
	Complete       State = "complete"
	Failed         State = "failed"
)

// Progress is reported on every state change.
type Progress struct {
	State   State
	Percent int
	Message string
}

// ProgressFunc receives progress updates. It is called synchronously.
type ProgressFunc func(Progress)

// FilePrefix starts every export file name.
const FilePrefix = "daily-work-journal"

// Draft is a rendered journal that has not been saved yet.
type Draft struct {
	Template string
	Renderer render.Renderer
	Context  journal.Context
	Bundle   *collect.Bundle
	Document journal.Document
	Content  string
	Filename string
}

// Result describes a completed export.
type Result struct {
	Draft
	SaveMethod string
	Record     model.ExportHistoryRecord
}

// Exporter runs one export at a time against a store and a saver.
type Exporter struct {
	store    storage.Store
	saver    Saver
	now      func() time.Time
	progress ProgressFunc

	running sync.Mutex

	mu    sync.Mutex
	state State
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Exporter) { e.progress = fn }
}

// New returns an idle Exporter.
func New(store storage.Store, saver Saver, opts ...Option) *Exporter {
	e := &Exporter{store: store, saver: saver, now: time.Now, state: Idle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the state of the current or last export.
func (e *Exporter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Exporter) set(s State, percent int, msg string) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	if e.progress != nil {
		e.progress(Progress{State: s, Percent: percent, Message: msg})
	}
}

// Export runs the pipeline with settings and saves the result. A second call
// while one is running fails with ErrExportInProgress. On failure the
// persisted settings and history are left untouched.
func (e *Exporter) Export(ctx context.Context, settings model.ExportSettings) (*Result, error) {
	if !e.running.TryLock() {
		return nil, ErrExportInProgress
	}
	defer e.running.Unlock()

	res, err := e.run(ctx, settings)
	if err != nil {
		e.set(Failed, 0, err.Error())
		return nil, err
	}
	return res, nil
}

func (e *Exporter) run(ctx context.Context, settings model.ExportSettings) (*Result, error) {
	e.set(CollectingData, 10, "Collecting data")
	draft, err := e.prepare(ctx, settings, e.now(), func() {
		e.set(Formatting, 50, "Formatting journal")
	})
	if err != nil {
		return nil, err
	}

	e.set(Saving, 80, "Saving "+draft.Filename)
	method, err := e.saver.Save(ctx, draft.Content, draft.Filename, draft.Renderer.MimeType)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Draft:      *draft,
		SaveMethod: method,
		Record: model.ExportHistoryRecord{
			ID:         uuid.NewString(),
			Filename:   draft.Filename,
			Timestamp:  draft.Context.Now,
			Format:     draft.Renderer.Name,
			DateRange:  settings.DateRange,
			Sections:   settings.IncludeSections.Enabled(),
			ItemCount:  draft.Bundle.ItemCount(),
			SaveMethod: method,
		},
	}
	e.persist(ctx, settings, res.Record)
	e.set(Complete, 100, fmt.Sprintf("Exported %s (%s)", draft.Filename, method))
	return res, nil
}

// Prepare collects, templates and renders without saving anything. It does
// not take part in the single-export guard.
func (e *Exporter) Prepare(ctx context.Context, settings model.ExportSettings) (*Draft, error) {
	return e.prepare(ctx, settings, e.now(), nil)
}

func (e *Exporter) prepare(ctx context.Context, settings model.ExportSettings, now time.Time, formatting func()) (*Draft, error) {
	loc, err := timecalc.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, &ConfigError{Field: "timezone", Value: settings.Timezone, Err: ErrInvalidSetting}
	}
	renderer, ok := render.Lookup(settings.DefaultFormat)
	if !ok {
		return nil, unknown(ErrUnknownFormat, "format", settings.DefaultFormat, render.Names())
	}
	if !daterange.Known(settings.DateRange) {
		return nil, unknown(ErrInvalidSetting, "date range", settings.DateRange, daterange.Keywords)
	}
	var custom daterange.Bounds
	if settings.DateRange == daterange.Custom {
		custom, err = daterange.ParseCustom(settings.CustomDateRange.Start, settings.CustomDateRange.End, loc)
		if err != nil {
			return nil, &ConfigError{Field: "date range", Value: err.Error(), Err: ErrInvalidSetting}
		}
	}

	r := daterange.Resolve(settings.DateRange, custom, now, loc)
	tplName := strings.ToLower(strings.TrimSpace(settings.JournalTemplate))
	if tplName == "" || tplName == journal.Auto {
		tplName = journal.AutoSelect(r.Days(), renderer.Name, settings.IncludeSections)
	}
	tpl, ok := journal.Lookup(tplName)
	if !ok {
		return nil, unknown(ErrUnknownTemplate, "template", settings.JournalTemplate, journal.Names())
	}

	bundle := collect.All(ctx, e.store, collect.Request{
		Range:    r,
		Location: loc,
		Now:      now,
		Sections: settings.IncludeSections,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if formatting != nil {
		formatting()
	}
	jctx := journal.Context{
		Now:          now,
		Timezone:     loc.String(),
		Range:        r,
		RangeKeyword: settings.DateRange,
		RangeLabel:   daterange.Label(settings.DateRange, r),
		DateFormat:   settings.DateFormat,
		Format:       renderer.Name,
		Template:     tpl.Name,
		Options:      settings.ExportOptions,
		Sections:     settings.IncludeSections,
	}
	doc := tpl.Process(bundle, jctx)
	content, err := renderer.Format(doc, jctx)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", renderer.Name, err)
	}

	return &Draft{
		Template: tpl.Name,
		Renderer: renderer,
		Context:  jctx,
		Bundle:   bundle,
		Document: doc,
		Content:  content,
		Filename: Filename(r, renderer.Extension),
	}, nil
}

// persist saves the settings and appends the history record. Failures are
// logged; the export itself already succeeded.
func (e *Exporter) persist(ctx context.Context, settings model.ExportSettings, rec model.ExportHistoryRecord) {
	if err := e.store.Set(ctx, model.KeyExportSettings, settings); err != nil {
		logs.Logger.Printf("warning: saving export settings: %v", err)
	}
	history, err := LoadHistory(ctx, e.store)
	if err != nil {
		logs.Logger.Printf("warning: reading export history: %v", err)
		return
	}
	if err := e.store.Set(ctx, model.KeyExportHistory, model.AppendHistory(history, rec)); err != nil {
		logs.Logger.Printf("warning: saving export history: %v", err)
	}
}

// Filename is daily-work-journal_<first day>[_to_<last day>]<ext>.
func Filename(r daterange.Range, ext string) string {
	first := timecalc.DayKey(r.Start)
	last := timecalc.DayKey(r.LastDay())
	if first == last {
		return fmt.Sprintf("%s_%s%s", FilePrefix, first, ext)
	}
	return fmt.Sprintf("%s_%s_to_%s%s", FilePrefix, first, last, ext)
}

// LoadSettings returns the persisted export settings, or the defaults.
func LoadSettings(ctx context.Context, s storage.Store) (model.ExportSettings, error) {
	return storage.Value(ctx, s, model.KeyExportSettings, model.DefaultExportSettings())
}

// LoadHistory returns the persisted export history, oldest first.
func LoadHistory(ctx context.Context, s storage.Store) ([]model.ExportHistoryRecord, error) {
	return storage.Value(ctx, s, model.KeyExportHistory, []model.ExportHistoryRecord{})
}
