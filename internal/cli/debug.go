package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	Paths  DebugPathsCmd  `cmd:"" help:"Show data, database and config paths."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump the document, or one section of it, as JSON."`
	Audit  DebugAuditCmd  `cmd:"" help:"Show recent mutations."`
	Config DebugConfigCmd `cmd:"" help:"Show the resolved configuration."`
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.printf("%s\n", jsonBytes)
	return nil
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{
		"dataDir":  ctx.Config.DataDir,
		"database": ctx.KV.Path(),
		"config":   ctx.Config.File,
		"blobs":    ctx.Config.BlobDir(),
		"exports":  ctx.Config.ExportDir(),
		"inbox":    ctx.Config.InboxDir(),
	})
}

type DebugDumpCmd struct {
	Section string `arg:"" optional:"" help:"Top-level key to dump, e.g. habits or study."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	data, err := ctx.Store.ExportData()
	if err != nil {
		return err
	}
	if cmd.Section == "" {
		ctx.printf("%s\n", data)
		return nil
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return err
	}
	section, ok := sections[cmd.Section]
	if !ok {
		return fmt.Errorf("no section %q in the document", cmd.Section)
	}
	return printJSON(ctx, section)
}

type DebugAuditCmd struct {
	Limit int `help:"Number of entries to show." default:"20"`
}

func (cmd *DebugAuditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	entries := ctx.Store.AuditLog()
	if cmd.Limit > 0 && len(entries) > cmd.Limit {
		entries = entries[len(entries)-cmd.Limit:]
	}
	for _, e := range entries {
		ctx.printf("%s  %-8s %-16s %s\n", e.Timestamp, e.Action, e.Kind, e.EntityID)
	}
	return nil
}

type DebugConfigCmd struct{}

func (cmd *DebugConfigCmd) Run(ctx *Context) error {
	return printJSON(ctx, ctx.Config)
}
