package export

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Tiliavir/daily-work-journal/internal/logs"
	"github.com/Tiliavir/daily-work-journal/internal/model"
)

// DefaultJobTimeout bounds a single scheduled export.
const DefaultJobTimeout = 2 * time.Minute

// Scheduler runs exports on a cron expression.
type Scheduler struct {
	cron     *cron.Cron
	exporter *Exporter
	settings func(context.Context) (model.ExportSettings, error)
	timeout  time.Duration
}

// NewScheduler registers an export job for spec, a standard five-field cron
// expression or a descriptor such as "@daily". settings is called before every
// run so that the latest persisted settings are used.
func NewScheduler(e *Exporter, spec string, loc *time.Location, settings func(context.Context) (model.ExportSettings, error)) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		exporter: e,
		settings: settings,
		timeout:  DefaultJobTimeout,
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Next returns the next activation time. It is zero until Run has started
// the scheduler.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.export(ctx); err != nil {
		logs.Logger.Printf("scheduled export failed: %v", err)
	}
	if next := s.Next(); !next.IsZero() {
		logs.Logger.Printf("next scheduled export at %s", next.Format(time.RFC3339))
	}
}

func (s *Scheduler) export(ctx context.Context) error {
	settings, err := s.settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	res, err := s.exporter.Export(ctx, settings)
	if err != nil {
		return err
	}
	logs.Logger.Printf("scheduled export wrote %s via %s", res.Filename, res.SaveMethod)
	return nil
}

// Run starts the scheduler and blocks until ctx is done. Running jobs are
// allowed to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	logs.Logger.Printf("scheduler started, first export at %s", s.Next().Format(time.RFC3339))
	<-ctx.Done()
	<-s.cron.Stop().Done()
}
