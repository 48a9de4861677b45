package main

import (
	"github.com/spf13/cobra"
)

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show a decision and its links",
		GroupID: GroupViews,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			d, links, err := a.svc.Show(ctx, args[0])
			if err != nil {
				return err
			}
			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writeShow(cmd.OutOrStdout(), format, d, links)
		},
	}
}
