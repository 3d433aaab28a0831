// Package runner hands a rendered prompt to the consumer command that acts
// on it (an AI CLI, a clipboard tool, ...) and streams what it prints.
package runner

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"promptbox/model"

	"golang.org/x/sync/errgroup"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// pipeGrace bounds how long Wait keeps reading after the shell exits, for
// children that inherited the pipes.
const pipeGrace = 2 * time.Second

// ExtractParams lists the {{name}} placeholders of a consumer command line,
// first occurrence order.
func ExtractParams(line string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(line, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// SubstituteParams fills placeholders in one pass. Names missing from
// values stay as they are.
func SubstituteParams(line string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(line, func(tok string) string {
		if v, ok := values[tok[2:len(tok)-2]]; ok {
			return v
		}
		return tok
	})
}

// PromptParams exposes a prompt's command to a consumer command line as
// {{action}}, {{resource}} and {{id}}, shell quoted.
func PromptParams(p model.RenderedPrompt) map[string]string {
	return map[string]string{
		"action":   shellQuote(string(p.Command.Action)),
		"resource": shellQuote(p.Command.Resource),
		"id":       shellQuote(p.ID),
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// OutputMsg carries one line of consumer output, or the final status when
// Done is set.
type OutputMsg struct {
	Line   string
	IsErr  bool
	Done   bool
	ErrMsg string
}

// Run feeds prompt to line's stdin under sh and sends every output line to
// out. The last message has Done set, then out is closed.
func Run(ctx context.Context, line string, prompt string, out chan<- OutputMsg) {
	defer close(out)
	if err := run(ctx, line, prompt, out); err != nil {
		out <- OutputMsg{Done: true, ErrMsg: err.Error()}
		return
	}
	out <- OutputMsg{Done: true}
}

func run(ctx context.Context, line, prompt string, out chan<- OutputMsg) error {
	c := exec.CommandContext(ctx, "sh", "-c", line)
	c.Stdin = strings.NewReader(prompt)
	c.WaitDelay = pipeGrace

	stdout, err := c.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return forward(stdout, false, out) })
	g.Go(func() error { return forward(stderr, true, out) })
	scanErr := g.Wait()

	if err := c.Wait(); err != nil {
		return err
	}
	return scanErr
}

func forward(r io.Reader, isErr bool, out chan<- OutputMsg) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out <- OutputMsg{Line: sc.Text(), IsErr: isErr}
	}
	return sc.Err()
}

// Collect runs line to completion and returns everything it printed.
// errMsg is set when the command failed.
func Collect(ctx context.Context, line string, prompt string) (lines []string, errMsg string) {
	out := make(chan OutputMsg)
	go Run(ctx, line, prompt, out)
	for msg := range out {
		if msg.Done {
			errMsg = msg.ErrMsg
			continue
		}
		lines = append(lines, msg.Line)
	}
	return lines, errMsg
}
