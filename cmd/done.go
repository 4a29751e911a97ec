package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/model"
)

var doneUndo bool

var doneCmd = &cobra.Command{
	Use:       "done <todo|meeting|milestone> <id>",
	Short:     "Mark a record completed",
	Long:      "Mark a record completed. The id may be shortened to any unique prefix.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"todo", "meeting", "milestone"},
	RunE:      runDone,
}

var removeCmd = &cobra.Command{
	Use:   "remove <todo|meeting|milestone> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark the record pending again")
}

// storeFor maps a record kind to its store name.
func storeFor(kind string) (string, error) {
	switch kind {
	case "todo", "todos":
		return model.StoreTodos, nil
	case "meeting", "meetings":
		return model.StoreMeetings, nil
	case "milestone", "milestones":
		return model.StoreMilestones, nil
	}
	return "", userErr(fmt.Errorf("unknown record kind %q: use todo, meeting or milestone", kind))
}

func runDone(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	storeName, err := storeFor(args[0])
	if err != nil {
		return err
	}
	now := time.Now()
	var completedAt *time.Time
	if !doneUndo {
		completedAt = &now
	}

	var id, title string
	var rec any
	switch storeName {
	case model.StoreTodos:
		t, err := findRecord(ctx, storeName, args[1], func(t model.Todo) string { return t.ID })
		if err != nil {
			return err
		}
		t.Completed, t.CompletedAt = !doneUndo, completedAt
		id, title, rec = t.ID, t.Text, t
	case model.StoreMeetings:
		m, err := findRecord(ctx, storeName, args[1], func(m model.Meeting) string { return m.ID })
		if err != nil {
			return err
		}
		m.Completed = !doneUndo
		id, title, rec = m.ID, m.Title, m
	case model.StoreMilestones:
		m, err := findRecord(ctx, storeName, args[1], func(m model.Milestone) string { return m.ID })
		if err != nil {
			return err
		}
		m.Completed, m.CompletedAt, m.UpdatedAt = !doneUndo, completedAt, &now
		id, title, rec = m.ID, m.Title, m
	}

	if err := store.SaveTo(ctx, storeName, id, rec); err != nil {
		return ioErr(err)
	}
	if doneUndo {
		fmt.Printf("Reopened %s %q\n", args[0], title)
	} else {
		fmt.Printf("%s %s %q\n", okStyle.Render("✓ Completed"), args[0], title)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	storeName, err := storeFor(args[0])
	if err != nil {
		return err
	}
	type withID struct {
		ID string `json:"id"`
	}
	rec, err := findRecord(ctx, storeName, args[1], func(r withID) string { return r.ID })
	if err != nil {
		return err
	}
	if err := store.DeleteFrom(ctx, storeName, rec.ID); err != nil {
		return ioErr(err)
	}
	fmt.Printf("Removed %s %s\n", args[0], shortID(rec.ID))
	return nil
}
