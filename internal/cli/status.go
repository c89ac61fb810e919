package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// StatusCmd prints today's progress, due reviews and sync state
type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	today := ctx.Store.Today()
	day := ctx.Store.LiveStats(today)

	var b strings.Builder
	b.WriteString(titleStyle.Render("glowup · "+today) + "\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Habits", fmt.Sprintf("%d/%d done", day.CompletedHabits, day.TotalHabits))
	row("Points", fmt.Sprintf("%d/%d (%d%%)", day.EarnedPoints, day.TotalPoints, day.Percentage))
	row("Flashcards due", fmt.Sprintf("%d", len(ctx.Store.DueFlashcards())))
	row("Words due", fmt.Sprintf("%d", ctx.Store.DueVocabularyCount()))
	if charts := ctx.Store.GetMonthlyCharts(); len(charts) > 0 {
		last := charts[len(charts)-1]
		row("Month average", fmt.Sprintf("%s: %d%%", last.Month, last.AveragePerformance))
	}
	row("Last updated", ctx.Store.LastUpdated())

	if len(ctx.Config.RemoteDrivers()) > 0 {
		row("Sync queue", fmt.Sprintf("%d pending", ctx.Queue.Pending()))
		for _, e := range ctx.Queue.Entries() {
			if e.LastError != "" {
				b.WriteString(warnStyle.Render("last sync error: "+e.LastError) + "\n")
				break
			}
		}
	}
	ctx.printf("%s", b.String())
	return nil
}
