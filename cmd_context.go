package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the project context detected for the workspace",
	RunE:  runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	pctx, err := projectContext(commandContext(cmd))
	if err != nil {
		return err
	}
	if pctx == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Project context is disabled")
		return nil
	}
	data, err := yaml.Marshal(pctx)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
