package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/glowup/internal/cli"
	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/config"
	"github.com/julianstephens/glowup/internal/constants"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DataDir string `help:"Data directory." type:"path"`
	Config  string `help:"Config file path; defaults to glowup.yaml in the data directory." type:"path"`
	EnvFile string `help:"Env file loaded before the environment is read." default:".env" type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize glowup storage."`
	Status  cli.StatusCmd  `cmd:"" help:"Show today's progress." default:"1"`
	Habit   cli.HabitCmd   `cmd:"" help:"Track habits."`
	Vice    cli.ViceCmd    `cmd:"" help:"Track vices."`
	Review  cli.ReviewCmd  `cmd:"" help:"Review flashcards and vocabulary."`
	Archive cli.ArchiveCmd `cmd:"" help:"File elapsed days into the monthly charts."`
	Export  cli.ExportCmd  `cmd:"" help:"Export the document as JSON."`
	Import  cli.ImportCmd  `cmd:"" help:"Replace the document with an export."`
	Reset   cli.ResetCmd   `cmd:"" help:"Erase all data."`
	Sync    cli.SyncCmd    `cmd:"" help:"Synchronize with the remote."`
	Daemon  cli.DaemonCmd  `cmd:"" help:"Run archiving, inbox import and sync in the background."`
	Serve   cli.ServeCmd   `cmd:"" help:"Run a sync server."`
	Backup  cli.BackupCmd  `cmd:"" help:"Manage database backups."`
	Keyring cli.KeyringCmd `cmd:"" help:"Manage remote secrets."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks."`
	Inspect cli.DebugCmd   `cmd:"" name:"debug" help:"Inspect internal state."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first habit, study and progress tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Options{
		DataDir:    CLI.DataDir,
		ConfigFile: CLI.Config,
		EnvFile:    CLI.EnvFile,
		Debug:      CLI.Debug,
	})
	apperr.Fatal(err)

	background := kctx.Command() == "daemon" || kctx.Command() == "serve"
	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir, Stderr: background}); err != nil {
		apperr.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	appCtx, err := cli.NewContext(cfg, clock.Real{})
	apperr.Fatal(err)

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("failed to close storage", "error", cerr)
	}
	if err != nil {
		apperr.Fatal(err)
	}
	_ = logger.Close()
}
