package main

import (
	"context"
	"fmt"
	"os"

	"promptbox/config"
	"promptbox/db"
	"promptbox/logging"
	"promptbox/model"
	"promptbox/templates"
	"promptbox/workspace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	workspaceDir string
	noContext    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "promptbox",
	Short: "Turn Backend.<action>(...) calls into AI instruction prompts",
	Long: `promptbox finds calls such as

  Backend.crear("usuario", { nombre: "Juan" })
  Backend.obtener("proyecto", 123)

written in any source file, and renders each one into an instruction prompt
for an AI code generator, enriched with what the current Genesis workspace
declares about the resource.

Run without arguments to open the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// The TUI owns the terminal and builds its own file logger.
		if !cmd.HasParent() || cmd.Name() == "tui" {
			return nil
		}

		level := logging.ParseLevel(cfg.Logging.Level)
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, err = logging.New(cfg.Logging.Mode, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.promptbox/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace root used for project context (default: current)")
	rootCmd.PersistentFlags().BoolVar(&noContext, "no-context", false, "Do not scan the workspace for project context")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRegistry() (*templates.Registry, error) {
	if cfg != nil && cfg.Templates.Path != "" {
		reg, err := templates.LoadFile(cfg.Templates.Path)
		if err != nil {
			return nil, fmt.Errorf("load templates %s: %w", cfg.Templates.Path, err)
		}
		return reg, nil
	}
	return templates.Default()
}

// workspaceRoot resolves the root from flag, config, then working dir.
func workspaceRoot() string {
	if workspaceDir != "" {
		return workspaceDir
	}
	if cfg != nil && cfg.Workspace.Root != "" {
		return cfg.Workspace.Root
	}
	wd, _ := os.Getwd()
	return wd
}

// projectContext scans the workspace, or returns nil when context is
// turned off.
func projectContext(ctx context.Context) (*model.ProjectContext, error) {
	if noContext || (cfg != nil && !cfg.Workspace.AutoDetect) {
		return nil, nil
	}
	pc, err := workspace.NewScanner(logger).Detect(ctx, workspaceRoot())
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	logger.Debug("Project context", zap.String("root", pc.Root), zap.String("type", string(pc.Type)))
	return &pc, nil
}

func openArchive() (*db.DB, error) {
	path := ""
	if cfg != nil {
		path = cfg.History.Path
	}
	if path == "" {
		var err error
		if path, err = db.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return db.New(path)
}

// commandContext is cmd's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
