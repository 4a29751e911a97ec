// Package collect reads the records of one export from the store and filters
// them to the export range.
package collect

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/stats"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
)

// Info describes the export itself. It is always present in a Bundle.
type Info struct {
	GeneratedAt      time.Time       `json:"generatedAt"`
	DateRange        daterange.Range `json:"dateRange"`
	Timezone         string          `json:"timezone"`
	IncludedSections []string        `json:"includedSections"`
}

// Roadmap is the roadmap section.
type Roadmap struct {
	Project    model.ProjectConfig `json:"project"`
	Milestones []model.Milestone   `json:"milestones"`
}

// Checklist is the checklist section. History is keyed by YYYY-MM-DD.
type Checklist struct {
	History   map[string]model.DayChecklist `json:"history"`
	Templates []model.ChecklistTemplate     `json:"templates"`
}

// Bundle is the data of one export. A nil section was either not requested or
// failed; failures are recorded in Errors under the section name.
type Bundle struct {
	Info       Info              `json:"exportInfo"`
	Roadmap    *Roadmap          `json:"roadmap,omitempty"`
	Checklist  *Checklist        `json:"checklist,omitempty"`
	Todos      []model.Todo      `json:"todos,omitempty"`
	Meetings   []model.Meeting   `json:"meetings,omitempty"`
	Statistics *stats.Statistics `json:"statistics,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Has reports whether the named section was collected successfully.
func (b *Bundle) Has(section string) bool {
	switch section {
	case model.SectionRoadmap:
		return b.Roadmap != nil
	case model.SectionChecklist:
		return b.Checklist != nil
	case model.SectionTodos:
		return b.Todos != nil
	case model.SectionMeetings:
		return b.Meetings != nil
	case model.SectionStatistics:
		return b.Statistics != nil
	}
	return false
}

// ItemCount is the number of records carried by the bundle.
func (b *Bundle) ItemCount() int {
	n := len(b.Todos) + len(b.Meetings)
	if b.Roadmap != nil {
		n += len(b.Roadmap.Milestones)
	}
	if b.Checklist != nil {
		n += len(b.Checklist.History)
	}
	return n
}

// Request parameterizes a collection run.
type Request struct {
	Range    daterange.Range
	Location *time.Location
	Now      time.Time
	Sections model.IncludeSections
}

// All runs the collectors of every enabled section concurrently and waits for
// all of them. A failing collector never cancels its siblings; its error is
// logged and stored in Bundle.Errors.
func All(ctx context.Context, s storage.Store, req Request) *Bundle {
	if req.Location == nil {
		req.Location = time.UTC
	}
	b := &Bundle{
		Info: Info{
			GeneratedAt:      req.Now,
			DateRange:        req.Range,
			Timezone:         req.Location.String(),
			IncludedSections: req.Sections.Enabled(),
		},
	}

	var (
		mu   sync.Mutex
		errs = map[string]string{}
	)
	fail := func(section string, err error) {
		logs.Logger.Printf("collect %s: %v", section, err)
		mu.Lock()
		errs[section] = err.Error()
		mu.Unlock()
	}

	var g errgroup.Group
	run := func(section string, fn func() error) {
		if !req.Sections.Has(section) {
			return
		}
		g.Go(func() error {
			if err := fn(); err != nil {
				fail(section, err)
			}
			return nil
		})
	}

	run(model.SectionRoadmap, func() (err error) {
		b.Roadmap, err = CollectRoadmap(ctx, s, req.Range, req.Location)
		return err
	})
	run(model.SectionChecklist, func() (err error) {
		b.Checklist, err = CollectChecklist(ctx, s, req.Range, req.Location)
		return err
	})
	run(model.SectionTodos, func() (err error) {
		b.Todos, err = CollectTodos(ctx, s, req.Range)
		return err
	})
	run(model.SectionMeetings, func() (err error) {
		b.Meetings, err = CollectMeetings(ctx, s, req.Range, req.Location)
		return err
	})
	run(model.SectionStatistics, func() (err error) {
		b.Statistics, err = CollectStatistics(ctx, s, req.Range, req.Now, req.Location)
		return err
	})
	_ = g.Wait()

	if len(errs) > 0 {
		b.Errors = errs
	}
	return b
}

// CollectRoadmap reads the project config and the milestones dated in r,
// sorted by date.
func CollectRoadmap(ctx context.Context, s storage.Store, r daterange.Range, loc *time.Location) (*Roadmap, error) {
	project, err := storage.Value(ctx, s, model.KeyProject, model.ProjectConfig{})
	if err != nil {
		return nil, err
	}
	all, err := storage.Records[model.Milestone](ctx, s, model.StoreMilestones)
	if err != nil {
		return nil, err
	}
	milestones := []model.Milestone{}
	for _, m := range all {
		if ok, err := r.ContainsDay(m.Date, loc); err == nil && ok {
			milestones = append(milestones, m)
		}
	}
	sort.SliceStable(milestones, func(i, j int) bool { return milestones[i].Date < milestones[j].Date })
	return &Roadmap{Project: project, Milestones: milestones}, nil
}

// CollectChecklist reads the checklist history restricted to day keys in r and
// the checklist templates.
func CollectChecklist(ctx context.Context, s storage.Store, r daterange.Range, loc *time.Location) (*Checklist, error) {
	history, err := storage.Value(ctx, s, model.KeyChecklistHistory, map[string]model.DayChecklist{})
	if err != nil {
		return nil, err
	}
	templates, err := storage.Value(ctx, s, model.KeyChecklistTemplates, []model.ChecklistTemplate{})
	if err != nil {
		return nil, err
	}
	filtered := map[string]model.DayChecklist{}
	for key, d := range history {
		if ok, err := r.ContainsDay(key, loc); err == nil && ok {
			if d.Date == "" {
				d.Date = key
			}
			filtered[key] = d
		}
	}
	return &Checklist{History: filtered, Templates: templates}, nil
}

// CollectTodos returns the todos created in r.
func CollectTodos(ctx context.Context, s storage.Store, r daterange.Range) ([]model.Todo, error) {
	all, err := storage.Records[model.Todo](ctx, s, model.StoreTodos)
	if err != nil {
		return nil, err
	}
	out := []model.Todo{}
	for _, t := range all {
		if r.Contains(t.CreatedAt) {
			out = append(out, t)
		}
	}
	return out, nil
}

// CollectMeetings returns the meetings dated in r, sorted by date and time.
func CollectMeetings(ctx context.Context, s storage.Store, r daterange.Range, loc *time.Location) ([]model.Meeting, error) {
	all, err := storage.Records[model.Meeting](ctx, s, model.StoreMeetings)
	if err != nil {
		return nil, err
	}
	out := []model.Meeting{}
	for _, m := range all {
		if ok, err := r.ContainsDay(m.Date, loc); err == nil && ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// CollectStatistics reads the stores on its own and aggregates them over r, so
// it does not depend on the other collectors having run.
func CollectStatistics(ctx context.Context, s storage.Store, r daterange.Range, now time.Time, loc *time.Location) (*stats.Statistics, error) {
	history, err := storage.Value(ctx, s, model.KeyChecklistHistory, map[string]model.DayChecklist{})
	if err != nil {
		return nil, err
	}
	todos, err := storage.Records[model.Todo](ctx, s, model.StoreTodos)
	if err != nil {
		return nil, err
	}
	meetings, err := storage.Records[model.Meeting](ctx, s, model.StoreMeetings)
	if err != nil {
		return nil, err
	}
	return &stats.Statistics{
		Checklist: stats.ChecklistInRange(history, r, loc),
		Todos:     stats.TodosInRange(todos, r),
		Meetings:  stats.MeetingsInRange(meetings, r, now, loc),
	}, nil
}
