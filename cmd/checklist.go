package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/model"
	"github.com/Tiliavir/daily-work-journal/internal/storage"
	"github.com/Tiliavir/daily-work-journal/internal/timecalc"
)

var (
	checklistDate string
	checklistUndo bool
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Manage the daily checklist",
}

var checklistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the checklist of a day",
	Args:  cobra.NoArgs,
	RunE:  runChecklistShow,
}

var checklistAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add an item to a day's checklist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChecklistAdd,
}

var checklistCheckCmd = &cobra.Command{
	Use:   "check <number|id>",
	Short: "Tick off a checklist item",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistCheck,
}

var checklistApplyCmd = &cobra.Command{
	Use:   "apply <template>",
	Short: "Add the items of a checklist template to a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistApply,
}

var checklistTemplateCmd = &cobra.Command{
	Use:   "template <name> <item>...",
	Short: "Save a reusable checklist template",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runChecklistTemplate,
}

func init() {
	for _, c := range []*cobra.Command{checklistShowCmd, checklistAddCmd, checklistCheckCmd, checklistApplyCmd} {
		c.Flags().StringVar(&checklistDate, "date", "", "Day (YYYY-MM-DD); defaults to today")
	}
	checklistCheckCmd.Flags().BoolVar(&checklistUndo, "undo", false, "Untick the item")
	checklistCmd.AddCommand(checklistShowCmd, checklistAddCmd, checklistCheckCmd, checklistApplyCmd, checklistTemplateCmd)
}

// dayChecklist loads the history and the entry for the --date day.
func dayChecklist(ctx context.Context) (map[string]model.DayChecklist, model.DayChecklist, error) {
	loc, err := location()
	if err != nil {
		return nil, model.DayChecklist{}, err
	}
	day, err := parseDayFlag("date", checklistDate, time.Now(), loc)
	if err != nil {
		return nil, model.DayChecklist{}, err
	}
	history, err := storage.Value(ctx, store, model.KeyChecklistHistory, map[string]model.DayChecklist{})
	if err != nil {
		return nil, model.DayChecklist{}, ioErr(err)
	}
	if history == nil {
		history = map[string]model.DayChecklist{}
	}
	d, ok := history[day]
	if !ok {
		d = model.DayChecklist{Date: day}
	}
	return history, d, nil
}

func saveDay(ctx context.Context, history map[string]model.DayChecklist, d model.DayChecklist) error {
	history[d.Date] = d
	if err := store.Set(ctx, model.KeyChecklistHistory, history); err != nil {
		return ioErr(err)
	}
	return nil
}

func runChecklistShow(cmd *cobra.Command, _ []string) error {
	_, d, err := dayChecklist(cmd.Context())
	if err != nil {
		return err
	}
	printChecklist(os.Stdout, d)
	return nil
}

func printChecklist(w io.Writer, d model.DayChecklist) {
	done := d.CompletedCount()
	fmt.Fprintf(w, "%s  %d/%d (%d%%)\n", titleStyle.Render("Checklist "+d.Date), done, len(d.Items), timecalc.Percent(done, len(d.Items)))
	if len(d.Items) == 0 {
		fmt.Fprintln(w, "  No items.")
		return
	}
	for i, it := range d.Items {
		fmt.Fprintf(w, "  %2d. %s %s\n", i+1, check(it.Completed), it.Text)
	}
}

func runChecklistAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	history, d, err := dayChecklist(ctx)
	if err != nil {
		return err
	}
	d.Items = append(d.Items, model.ChecklistItem{ID: uuid.NewString(), Text: strings.Join(args, " ")})
	if err := saveDay(ctx, history, d); err != nil {
		return err
	}
	printChecklist(os.Stdout, d)
	return nil
}

// checklistIndex resolves a 1-based item number or an item id prefix.
func checklistIndex(d model.DayChecklist, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(d.Items) {
			return -1, fmt.Errorf("item %d out of range 1..%d", n, len(d.Items))
		}
		return n - 1, nil
	}
	ids := make([]string, len(d.Items))
	for i, it := range d.Items {
		ids[i] = it.ID
	}
	return matchID(ids, ref)
}

func runChecklistCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	history, d, err := dayChecklist(ctx)
	if err != nil {
		return err
	}
	i, err := checklistIndex(d, args[0])
	if err != nil {
		return userErr(err)
	}
	d.Items[i].Completed = !checklistUndo
	if err := saveDay(ctx, history, d); err != nil {
		return err
	}
	printChecklist(os.Stdout, d)
	return nil
}

func loadTemplates(ctx context.Context) ([]model.ChecklistTemplate, error) {
	ts, err := storage.Value(ctx, store, model.KeyChecklistTemplates, []model.ChecklistTemplate{})
	if err != nil {
		return nil, ioErr(err)
	}
	return ts, nil
}

func runChecklistApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	templates, err := loadTemplates(ctx)
	if err != nil {
		return err
	}
	var tpl *model.ChecklistTemplate
	for i := range templates {
		if strings.EqualFold(templates[i].Name, args[0]) {
			tpl = &templates[i]
			break
		}
	}
	if tpl == nil {
		return userErr(fmt.Errorf("no checklist template named %q", args[0]))
	}

	history, d, err := dayChecklist(ctx)
	if err != nil {
		return err
	}
	d.Items = applyTemplate(d.Items, *tpl)
	if err := saveDay(ctx, history, d); err != nil {
		return err
	}
	printChecklist(os.Stdout, d)
	return nil
}

// applyTemplate appends the template items the day does not have yet.
func applyTemplate(items []model.ChecklistItem, tpl model.ChecklistTemplate) []model.ChecklistItem {
	have := make(map[string]bool, len(items))
	for _, it := range items {
		have[it.Text] = true
	}
	for _, text := range tpl.Items {
		if !have[text] {
			items = append(items, model.ChecklistItem{ID: uuid.NewString(), Text: text})
			have[text] = true
		}
	}
	return items
}

func runChecklistTemplate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	templates, err := loadTemplates(ctx)
	if err != nil {
		return err
	}
	tpl := model.ChecklistTemplate{ID: uuid.NewString(), Name: args[0], Items: args[1:]}
	replaced := false
	for i := range templates {
		if strings.EqualFold(templates[i].Name, tpl.Name) {
			tpl.ID = templates[i].ID
			templates[i] = tpl
			replaced = true
		}
	}
	if !replaced {
		templates = append(templates, tpl)
	}
	if err := store.Set(ctx, model.KeyChecklistTemplates, templates); err != nil {
		return ioErr(err)
	}
	fmt.Printf("Saved template %q with %d items\n", tpl.Name, len(tpl.Items))
	return nil
}
