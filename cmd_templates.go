package main

import (
	"fmt"
	"text/tabwriter"

	"promptbox/model"
	"promptbox/templates"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [action]",
	Short: "List the prompt templates, or document one action",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplates,
}

func runTemplates(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		action, ok := model.ParseAction(args[0])
		if !ok {
			return fmt.Errorf("unknown action %q (want one of %s)", args[0], actionList())
		}
		t, ok := reg.Get(action)
		if !ok {
			return fmt.Errorf("no template registered for %s", action)
		}
		doc := templates.Doc(t) + "**Plantilla de llamada:**\n\n```javascript\n" + templates.Snippet(action) + "\n```\n"
		return printPrompt(out, doc, "markdown", cfg.Output.Pretty)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tREQUIRED\tDESCRIPTION")
	for _, t := range reg.All() {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", t.Action, t.Required, t.Description)
	}
	return tw.Flush()
}
