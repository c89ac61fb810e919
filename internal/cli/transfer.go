package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/glowup/internal/backup"
)

type ExportCmd struct {
	File string `arg:"" optional:"" help:"Destination file; defaults to a timestamped file in the exports directory." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	data, err := ctx.Store.ExportData()
	if err != nil {
		return err
	}
	path := c.File
	if path == "" {
		path, err = backup.WriteExport(ctx.Config.ExportDir(), data, ctx.Clock.Now())
		if err != nil {
			return err
		}
	} else if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("✓ Exported to %s\n", path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Exported JSON document to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := ctx.Store.ImportData(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.printf("✓ Imported %s\n", c.File)
	return nil
}

type ArchiveCmd struct{}

func (c *ArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	n, err := newArchiver(ctx).Check()
	if err != nil {
		return err
	}
	n += ctx.archived
	ctx.archived = 0
	ctx.printf("Archived %d day(s).\n", n)
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.confirm("Erase all data and start over?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Reset cancelled.\n")
			return nil
		}
	}
	if err := ctx.Store.Reset(); err != nil {
		return err
	}
	if err := ctx.Queue.Reset(); err != nil {
		return err
	}
	if err := ctx.Store.Save(); err != nil {
		return err
	}
	ctx.printf("✓ All data erased\n")
	return nil
}
