package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/dictum"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "init [path]",
		Short:   "Initialize .dictum/ in the current directory (or path)",
		GroupID: GroupSetup,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := "."
			if len(args) == 1 {
				base = args[0]
			}
			dir, err := dictum.Init(cmd.Context(), base)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized dictum in %s\n", dir)
			return nil
		},
	}
}
