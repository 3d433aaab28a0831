package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"promptbox/parser"
	"promptbox/render"
	"promptbox/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Render new Backend calls each time a file is saved",
	Long: `Watches a file and, after every save, renders the Backend calls that were
added or changed since the previous save. Calls already present when the
watch starts are not rendered.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	r := render.New(reg, render.WithLogger(logger))

	w, err := watcher.New(path, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	_, seen := freshMatches(nil, parser.FindAll(string(data)))
	logger.Info("Watching file", zap.String("path", path), zap.Int("known", len(seen)))

	return w.Run(ctx, func(content string) {
		var fresh []parser.Match
		fresh, seen = freshMatches(seen, parser.FindAll(content))
		for _, m := range fresh {
			p, err := r.Render(m.Command, pctx)
			if err != nil {
				logger.Error("Render failed", zap.Error(err))
				continue
			}
			text, _ := render.Export(p, format)
			fmt.Fprintf(out, "── %s:%d ──\n", path, m.Line+1)
			if err := printPrompt(out, text, format, cfg.Output.Pretty); err != nil {
				logger.Error("Print failed", zap.Error(err))
			}
			if cfg.History.Persist {
				if err := archivePrompt(p, path); err != nil {
					logger.Error("Archive failed", zap.Error(err))
				}
			}
		}
	})
}

// freshMatches returns the matches whose call text was not in seen, and the
// set of call texts in matches.
func freshMatches(seen map[string]bool, matches []parser.Match) ([]parser.Match, map[string]bool) {
	var fresh []parser.Match
	next := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m.Text] && !next[m.Text] {
			fresh = append(fresh, m)
		}
		next[m.Text] = true
	}
	return fresh, next
}
