package main

import (
	"fmt"
	"os"

	"promptbox/parser"
	"promptbox/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanRender bool

var scanCmd = &cobra.Command{
	Use:   "scan file...",
	Short: "List every Backend call in the given files",
	Long: `Prints each Backend.<action>(...) call found, in document order, as
file:line followed by the normalized call. With --render every call is also
rendered, in order, into one prompt per call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanRender, "render", false, "Render each call as a plain prompt")
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var r *render.Renderer
	if scanRender {
		pctx, err := projectContext(commandContext(cmd))
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		r = render.New(reg, render.WithLogger(logger))
		defer func() {
			logger.Info("Scan rendered prompts", zap.Int("count", r.History().Len()))
		}()
		return scanFiles(cmd, args, func(path string, m parser.Match) error {
			p, err := r.Render(m.Command, pctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s:%d: %s\n\n%s\n\n", path, m.Line+1, parser.Format(m.Command), p.Text)
			return nil
		})
	}

	return scanFiles(cmd, args, func(path string, m parser.Match) error {
		fmt.Fprintf(out, "%s:%d: %s\n", path, m.Line+1, parser.Format(m.Command))
		return nil
	})
}

func scanFiles(cmd *cobra.Command, paths []string, visit func(path string, m parser.Match) error) error {
	total := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		matches := parser.FindAll(string(data))
		logger.Debug("Scanned file", zap.String("path", path), zap.Int("commands", len(matches)))
		for _, m := range matches {
			if err := visit(path, m); err != nil {
				return err
			}
		}
		total += len(matches)
	}
	if total == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No Backend commands found")
	}
	return nil
}
