package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <text>",
		Short: "Search decisions by substring",
		Long: `Search title, body, rebuttal and scope for a substring.
Matching ignores ASCII case; % and _ match literally.`,
		GroupID: GroupViews,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			decisions, err := a.ws.Store.SearchDecisions(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writeDecisionList(cmd.OutOrStdout(), format, decisions)
		},
	}
}
