package cli

import (
	"fmt"

	"github.com/julianstephens/glowup/internal/models"
)

type HabitCmd struct {
	List     HabitListCmd     `cmd:"" help:"List the habits scheduled for a day."`
	Complete HabitCompleteCmd `cmd:"" help:"Record a habit's status for a day."`
}

type HabitListCmd struct {
	Date string `help:"Day to list (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	habits := ctx.Store.HabitsForDate(date)
	if len(habits) == 0 {
		ctx.printf("No habits scheduled for %s.\n", date)
		return nil
	}
	status := make(map[string]models.CompletionStatus)
	for _, comp := range ctx.Store.GetHabitCompletions(date) {
		status[comp.HabitID] = comp.Status
	}
	for _, h := range habits {
		mark := "[ ]"
		switch status[h.ID] {
		case models.StatusCompleted:
			mark = "[x]"
		case models.StatusJustified:
			mark = "[~]"
		case models.StatusNotCompleted:
			mark = "[-]"
		}
		ctx.printf("%s %s  %s (%d pts, streak %d)\n", mark, h.ID, h.Name, h.Weight, h.Streak)
	}
	return nil
}

type HabitCompleteCmd struct {
	ID            string `arg:"" help:"Habit ID."`
	Date          string `help:"Day of the completion (YYYY-MM-DD, today or yesterday)." default:"today"`
	Status        string `help:"completed, not_completed or justified." default:"completed" enum:"completed,not_completed,justified"`
	Justification string `help:"Reason, for a justified day."`
}

func (c *HabitCompleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	ok, err := ctx.Store.CompleteHabit(c.ID, date, models.CompletionStatus(c.Status), c.Justification)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("habit not found: %s", c.ID)
	}
	ctx.printf("✓ %s marked %s on %s\n", c.ID, c.Status, date)
	return nil
}
