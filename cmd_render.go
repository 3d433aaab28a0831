package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"promptbox/model"
	"promptbox/parser"
	"promptbox/render"
	"promptbox/runner"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderLine   int
	renderFormat string
	renderPretty bool
	renderPipe   bool
	renderSave   bool
	renderAction string
	renderArgs   []string
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the Backend call in a file into a prompt",
	Long: `Finds a Backend.<action>(...) call and prints the prompt it renders to.

With --line the call on that line (or within two lines of it) is used;
otherwise the first call in the file. With --action the command is built
from --arg values instead of a file.

Examples:
  promptbox render src/app.js --line 42
  promptbox render src/app.js --format plain --pipe
  promptbox render --action obtener --arg proyecto --arg 123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVarP(&renderLine, "line", "l", 0, "1-based line of the call (default: first call in the file)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: markdown, plain or json (default from config)")
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "Render markdown output for the terminal")
	renderCmd.Flags().BoolVar(&renderPipe, "pipe", false, "Send the prompt to the configured consumer command")
	renderCmd.Flags().BoolVar(&renderSave, "save", false, "Archive the prompt in the history database")
	renderCmd.Flags().StringVarP(&renderAction, "action", "a", "", "Build the command for this action instead of reading a file")
	renderCmd.Flags().StringArrayVar(&renderArgs, "arg", nil, "Positional argument for --action (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	command, source, err := resolveCommand(args)
	if err != nil {
		return err
	}
	logger.Info("Rendering command",
		zap.String("action", string(command.Action)),
		zap.String("resource", command.Resource),
		zap.String("source", source))

	format, err := outputFormat(renderFormat)
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

	r := render.New(reg, render.WithLogger(logger))
	p, err := r.Render(command, pctx)
	if err != nil {
		return err
	}
	text, err := render.Export(p, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printPrompt(out, text, format, renderPretty || cfg.Output.Pretty); err != nil {
		return err
	}

	if renderSave || cfg.History.Persist {
		if err := archivePrompt(p, source); err != nil {
			return err
		}
	}
	if renderPipe {
		return pipePrompt(ctx, out, p, text)
	}
	return nil
}

// resolveCommand builds the command from --action flags or reads it from
// the file argument.
func resolveCommand(args []string) (model.Command, string, error) {
	if renderAction != "" {
		action, ok := model.ParseAction(renderAction)
		if !ok {
			return model.Command{}, "", fmt.Errorf("unknown action %q (want one of %s)", renderAction, actionList())
		}
		return parser.Build(action, renderArgs...), "", nil
	}
	if len(args) == 0 {
		return model.Command{}, "", errors.New("a file or --action is required")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Command{}, "", err
	}

	var (
		command model.Command
		ok      bool
	)
	if renderLine > 0 {
		command, ok = parser.CommandAt(parser.NewDocument(string(data)), renderLine-1)
	} else {
		command, ok = parser.Extract(string(data))
	}
	if !ok {
		if renderLine > 0 {
			return model.Command{}, "", fmt.Errorf("no Backend command near %s:%d", path, renderLine)
		}
		return model.Command{}, "", fmt.Errorf("no Backend command in %s", path)
	}
	return command, path, nil
}

func outputFormat(flag string) (render.Format, error) {
	if flag == "" {
		flag = cfg.Output.Format
	}
	return render.ParseFormat(flag)
}

func actionList() string {
	names := make([]string, len(model.Actions))
	for i, a := range model.Actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func printPrompt(w io.Writer, text string, format render.Format, pretty bool) error {
	if pretty && format == render.FormatMarkdown {
		tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		if text, err = tr.Render(text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func archivePrompt(p model.RenderedPrompt, source string) error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	defer archive.Close()
	if err := archive.Save(p, source); err != nil {
		return fmt.Errorf("archive prompt: %w", err)
	}
	logger.Debug("Prompt archived", zap.String("id", p.ID))
	return nil
}

// pipePrompt runs the consumer command with the exported prompt on stdin.
func pipePrompt(ctx context.Context, w io.Writer, p model.RenderedPrompt, text string) error {
	if cfg.Consumer.Command == "" {
		return errors.New("no consumer command configured (consumer.command or PROMPTBOX_CONSUMER)")
	}
	line := runner.SubstituteParams(cfg.Consumer.Command, runner.PromptParams(p))
	if missing := runner.ExtractParams(line); len(missing) > 0 {
		return fmt.Errorf("consumer command has unknown params: %s", strings.Join(missing, ", "))
	}

	logger.Info("Piping prompt to consumer", zap.String("command", line))
	lines, errMsg := runner.Collect(ctx, line, text)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	if errMsg != "" {
		return fmt.Errorf("consumer command failed: %s", errMsg)
	}
	return nil
}
