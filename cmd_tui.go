package main

import (
	"fmt"

	"promptbox/logging"
	"promptbox/render"
	"promptbox/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Browse, build and send prompts interactively",
	Long: `Opens the interactive interface. With a file argument the Backend calls
in it are listed; ctrl+n builds a call from scratch either way.

Logs go to the configured log file, since the interface owns the terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = zapcore.DebugLevel
	}
	var err error
	logger, err = logging.NewFile(cfg.Logging.Mode, level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := commandContext(cmd)
	pctx, err := projectContext(ctx)
	if err != nil {
		return err
	}
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	format, err := outputFormat("")
	if err != nil {
		return err
	}

	archive, err := openArchive()
	if err != nil {
		logger.Warn("History archive unavailable", zap.Error(err))
	} else {
		defer archive.Close()
	}

	source := ""
	if len(args) > 0 {
		source = args[0]
	}

	app, err := ui.NewApp(ui.Deps{
		Renderer: render.New(reg, render.WithLogger(logger)),
		Registry: reg,
		Archive:  archive,
		Context:  pctx,
		Format:   format,
		Consumer: cfg.Consumer.Command,
		Source:   source,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting TUI", zap.String("source", source))
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
