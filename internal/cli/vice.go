package cli

import (
	"fmt"

	"github.com/julianstephens/glowup/internal/models"
)

type ViceCmd struct {
	List ViceListCmd `cmd:"" help:"List vices with their clean streaks."`
	Mark ViceMarkCmd `cmd:"" help:"Mark a day clean or relapsed; marking it again clears it."`
}

type ViceListCmd struct{}

func (c *ViceListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	vices := ctx.Store.GetVices()
	if len(vices) == 0 {
		ctx.printf("No vices tracked.\n")
		return nil
	}
	for _, v := range vices {
		ctx.printf("%s  %s (%d clean days)\n", v.ID, v.Name, ctx.Store.ViceStreak(v.ID))
	}
	return nil
}

type ViceMarkCmd struct {
	ID     string `arg:"" help:"Vice ID."`
	Date   string `help:"Day to mark (YYYY-MM-DD, today or yesterday)." default:"today"`
	Status string `help:"clean or relapse." default:"clean" enum:"clean,relapse"`
}

func (c *ViceMarkCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	ok, err := ctx.Store.ToggleViceDay(c.ID, date, models.ViceStatus(c.Status))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("vice not found: %s", c.ID)
	}
	ctx.printf("✓ %s toggled %s on %s, streak %d\n", c.ID, c.Status, date, ctx.Store.ViceStreak(c.ID))
	return nil
}
