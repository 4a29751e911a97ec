package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/daterange"
	"github.com/Tiliavir/daily-work-journal/internal/export"
	"github.com/Tiliavir/daily-work-journal/internal/journal"
	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/render"
)

// exportFlags are the per-run overrides of the saved export settings.
type exportFlags struct {
	format     string
	template   string
	dateRange  string
	start      string
	end        string
	sections   string
	dateFormat string
	timezone   string
	insights   bool
	summary    bool
	metadata   bool
	detailed   bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.format, "format", "", "Output format: "+strings.Join(render.Names(), ", "))
	fs.StringVar(&f.template, "template", "", "Journal template: "+strings.Join(journal.Names(), ", "))
	fs.StringVar(&f.dateRange, "range", "", "Date range: "+strings.Join(daterange.Keywords, ", "))
	fs.StringVar(&f.start, "start", "", "Custom range start (YYYY-MM-DD); implies --range custom")
	fs.StringVar(&f.end, "end", "", "Custom range end, inclusive (YYYY-MM-DD); implies --range custom")
	fs.StringVar(&f.sections, "sections", "", "Comma-separated sections: "+strings.Join(model.AllSections, ", "))
	fs.StringVar(&f.dateFormat, "date-format", "", "Date format: "+strings.Join(journal.DateFormats, ", "))
	fs.StringVar(&f.timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")
	fs.BoolVar(&f.insights, "insights", true, "Include generated insights")
	fs.BoolVar(&f.summary, "summary", true, "Include the executive summary")
	fs.BoolVar(&f.metadata, "metadata", true, "Include export metadata")
	fs.BoolVar(&f.detailed, "detailed", false, "Detailed formatting (attendees, notes, due dates)")
}

// apply overrides s with the flags the user actually set.
func (f *exportFlags) apply(s model.ExportSettings, changed func(string) bool) (model.ExportSettings, error) {
	if changed("format") {
		s.DefaultFormat = f.format
	}
	if changed("template") {
		s.JournalTemplate = f.template
	}
	if changed("range") {
		if !daterange.Known(f.dateRange) {
			return s, fmt.Errorf("unknown date range %q (use one of %s)", f.dateRange, strings.Join(daterange.Keywords, ", "))
		}
		s.DateRange = f.dateRange
	}
	if changed("start") || changed("end") {
		if changed("range") && f.dateRange != "custom" {
			return s, fmt.Errorf("--start/--end need --range custom, got %q", f.dateRange)
		}
		s.DateRange = "custom"
		s.CustomDateRange = model.CustomDateRange{Start: f.start, End: f.end}
	}
	if changed("sections") {
		names, err := parseSections(f.sections)
		if err != nil {
			return s, err
		}
		s.IncludeSections = model.SectionsFromNames(names)
	}
	if changed("date-format") {
		if !slices.Contains(journal.DateFormats, f.dateFormat) {
			return s, fmt.Errorf("unknown date format %q (use one of %s)", f.dateFormat, strings.Join(journal.DateFormats, ", "))
		}
		s.DateFormat = f.dateFormat
	}
	if changed("timezone") {
		s.Timezone = f.timezone
	}
	if changed("insights") {
		s.ExportOptions.IncludeInsights = f.insights
	}
	if changed("summary") {
		s.ExportOptions.IncludeSummary = f.summary
	}
	if changed("metadata") {
		s.ExportOptions.IncludeMetadata = f.metadata
	}
	if changed("detailed") {
		s.ExportOptions.DetailedFormatting = f.detailed
	}
	return s, nil
}

// parseSections splits a comma-separated section list. "all" selects every
// section.
func parseSections(list string) ([]string, error) {
	var names []string
	for _, p := range strings.Split(list, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case p == "":
			continue
		case p == "all":
			return model.AllSections, nil
		case !slices.Contains(model.AllSections, p):
			return nil, fmt.Errorf("unknown section %q (use one of %s)", p, strings.Join(model.AllSections, ", "))
		}
		names = append(names, p)
	}
	if len(names) == 0 {
		return nil, errors.New("no sections selected")
	}
	return names, nil
}

var (
	exportOpts    exportFlags
	exportOutput  string
	exportPreview bool
	exportStyle   string
	exportWidth   int
	exportQuiet   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a work journal",
	Long: `Export collects the records of the selected date range, applies a journal
template and writes the result to the output directory, falling back to
~/Downloads when that fails. Flags override the saved export settings for this
run; the effective settings are saved after a successful export.`,
	Example: `  dwj export --range today --format markdown
  dwj export --start 2026-10-01 --end 2026-10-31 --template project --format html
  dwj export --range last7days --preview`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportPreview, "preview", false, "Render the journal to the terminal instead of saving it")
	exportCmd.Flags().StringVar(&exportStyle, "style", "dark", "Preview style: dark, light, notty, ascii")
	exportCmd.Flags().IntVar(&exportWidth, "width", 100, "Preview word-wrap width")
	exportCmd.Flags().BoolVarP(&exportQuiet, "quiet", "q", false, "Do not print progress")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	settings, err := loadSettings(ctx)
	if err != nil {
		return ioErr(err)
	}
	settings, err = exportOpts.apply(settings, cmd.Flags().Changed)
	if err != nil {
		return userErr(err)
	}

	var opts []export.Option
	if !exportQuiet && !exportPreview {
		opts = append(opts, export.WithProgress(printProgress))
	}
	e := export.New(store, newSaver(exportOutput), opts...)

	if exportPreview {
		draft, err := e.Prepare(ctx, settings)
		if err != nil {
			return failed(err)
		}
		out, err := render.Preview(draft.Document, draft.Context, exportStyle, exportWidth)
		if err != nil {
			return ioErr(err)
		}
		fmt.Print(out)
		printSectionErrors(draft.Bundle.Errors)
		return nil
	}

	res, err := e.Export(ctx, settings)
	if err != nil {
		return failed(err)
	}
	printSectionErrors(res.Bundle.Errors)
	fmt.Printf("%s %s (%s template, %d items, via %s)\n",
		okStyle.Render("✓ Exported"), res.Filename, res.Template, res.Record.ItemCount, res.SaveMethod)
	return nil
}

func newSaver(dir string) export.Saver {
	if dir == "" {
		dir = cfg.OutputDir
	}
	return export.FallbackSaver{
		Primary:   export.DirSaver{Dir: dir},
		Secondary: export.DownloadSaver{},
	}
}

// loadSettings returns the saved export settings. Before the first export the
// defaults use the configured timezone.
func loadSettings(ctx context.Context) (model.ExportSettings, error) {
	settings := model.DefaultExportSettings()
	ok, err := store.Get(ctx, model.KeyExportSettings, &settings)
	if err != nil {
		return settings, fmt.Errorf("reading export settings: %w", err)
	}
	if !ok && cfg.Timezone != "" {
		settings.Timezone = cfg.Timezone
	}
	return settings, nil
}

func printProgress(p export.Progress) {
	msg := fmt.Sprintf("[%3d%%] %s", p.Percent, p.Message)
	switch p.State {
	case export.Failed:
		fmt.Println(errStyle.Render("[fail] ") + p.Message)
	case export.Complete:
		fmt.Println(okStyle.Render(msg))
	default:
		fmt.Println(dimStyle.Render(msg))
	}
}

func printSectionErrors(errs map[string]string) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(warnStyle.Render("! "+name+" unavailable:"), errs[name])
	}
}
