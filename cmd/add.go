package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-journal/internal/model"
)

var (
	todoPriority string
	todoCategory string
	todoDue      string

	meetingDate      string
	meetingTime      string
	meetingDuration  int
	meetingAttendees string
	meetingNotes     string
	meetingActions   string

	milestoneDate        string
	milestoneDescription string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a todo, meeting or milestone",
}

var addTodoCmd = &cobra.Command{
	Use:   "todo <text>",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddTodo,
}

var addMeetingCmd = &cobra.Command{
	Use:   "meeting <title>",
	Short: "Add a meeting",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddMeeting,
}

var addMilestoneCmd = &cobra.Command{
	Use:   "milestone <title>",
	Short: "Add a roadmap milestone",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddMilestone,
}

func init() {
	addTodoCmd.Flags().StringVarP(&todoPriority, "priority", "p", string(model.PriorityMedium), "Priority: low, medium, high")
	addTodoCmd.Flags().StringVarP(&todoCategory, "category", "c", "", "Category")
	addTodoCmd.Flags().StringVar(&todoDue, "due", "", "Due date (YYYY-MM-DD)")

	addMeetingCmd.Flags().StringVar(&meetingDate, "date", "", "Date (YYYY-MM-DD); defaults to today")
	addMeetingCmd.Flags().StringVar(&meetingTime, "time", "", "Start time (HH:MM)")
	addMeetingCmd.Flags().IntVar(&meetingDuration, "duration", 0, "Duration in minutes")
	addMeetingCmd.Flags().StringVar(&meetingAttendees, "attendees", "", "Comma-separated attendees")
	addMeetingCmd.Flags().StringVar(&meetingNotes, "notes", "", "Notes")
	addMeetingCmd.Flags().StringVar(&meetingActions, "actions", "", "Comma-separated action items")

	addMilestoneCmd.Flags().StringVar(&milestoneDate, "date", "", "Target date (YYYY-MM-DD)")
	addMilestoneCmd.Flags().StringVar(&milestoneDescription, "description", "", "Description")
	_ = addMilestoneCmd.MarkFlagRequired("date")

	addCmd.AddCommand(addTodoCmd, addMeetingCmd, addMilestoneCmd)
}

func parsePriority(s string) (model.Priority, error) {
	switch p := model.Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q: use low, medium or high", s)
}

func runAddTodo(cmd *cobra.Command, args []string) error {
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	priority, err := parsePriority(todoPriority)
	if err != nil {
		return userErr(err)
	}
	todo := model.Todo{
		ID:        uuid.NewString(),
		Text:      strings.Join(args, " "),
		Priority:  priority,
		Category:  strings.TrimSpace(todoCategory),
		CreatedAt: now,
	}
	if todoDue != "" {
		if todo.DueDate, err = parseDayFlag("due", todoDue, now, loc); err != nil {
			return err
		}
	}

	if err := store.SaveTo(cmd.Context(), model.StoreTodos, todo.ID, todo); err != nil {
		return ioErr(err)
	}
	fmt.Printf("Added todo %s %q [%s]\n", shortID(todo.ID), todo.Text, todo.Priority)
	return nil
}

func runAddMeeting(cmd *cobra.Command, args []string) error {
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	day, err := parseDayFlag("date", meetingDate, now, loc)
	if err != nil {
		return err
	}
	if meetingTime != "" {
		if _, err := time.Parse("15:04", meetingTime); err != nil {
			return userErr(fmt.Errorf("invalid --time value %q: want HH:MM", meetingTime))
		}
	}
	if meetingDuration < 0 {
		return userErr(fmt.Errorf("--duration must not be negative"))
	}

	m := model.Meeting{
		ID:          uuid.NewString(),
		Title:       strings.Join(args, " "),
		Date:        day,
		Time:        meetingTime,
		Attendees:   splitList(meetingAttendees),
		Duration:    meetingDuration,
		Notes:       meetingNotes,
		ActionItems: splitList(meetingActions),
	}
	if err := store.SaveTo(cmd.Context(), model.StoreMeetings, m.ID, m); err != nil {
		return ioErr(err)
	}
	fmt.Printf("Added meeting %s %q on %s %s\n", shortID(m.ID), m.Title, m.Date, m.Time)
	return nil
}

func runAddMilestone(cmd *cobra.Command, args []string) error {
	now := time.Now()
	loc, err := location()
	if err != nil {
		return err
	}
	day, err := parseDayFlag("date", milestoneDate, now, loc)
	if err != nil {
		return err
	}
	updated := now
	m := model.Milestone{
		ID:          uuid.NewString(),
		Title:       strings.Join(args, " "),
		Date:        day,
		Description: milestoneDescription,
		UpdatedAt:   &updated,
	}
	if err := store.SaveTo(cmd.Context(), model.StoreMilestones, m.ID, m); err != nil {
		return ioErr(err)
	}
	fmt.Printf("Added milestone %s %q due %s\n", shortID(m.ID), m.Title, m.Date)
	return nil
}
