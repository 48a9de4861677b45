package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/decision"
)

func (a *app) amendCommand() *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "amend <id>",
		Short: "Supersede a decision with a new one",
		Long: `Supersede a decision with a new one.

The new decision copies level, kind, weight, rebuttal, scope, author and
labels; --title and --body replace the statement and its rationale. The old
decision is marked superseded and a supersedes link is recorded.`,
		GroupID: GroupDecisions,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			p := decision.AmendParams{ID: args[0]}
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("body") {
				p.Body = &body
			}
			res, err := a.svc.Amend(ctx, p)
			if err != nil {
				return err
			}

			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writeDecision(cmd.OutOrStdout(), format, res.New,
				fmt.Sprintf("Amended: %s -> %s", res.Old.ID, res.New.ID))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New decision statement (default: keep the old one)")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Why it changed")
	return cmd
}

func (a *app) deprecateCommand() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:     "deprecate <id>",
		Short:   "Mark a decision as deprecated",
		GroupID: GroupDecisions,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			d, err := a.svc.Deprecate(ctx, args[0])
			if err != nil {
				return err
			}

			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			text := "Deprecated: " + d.ID
			if reason != "" {
				text += " (" + reason + ")"
			}
			return writeDecision(cmd.OutOrStdout(), format, d, text)
		},
	}
	// The reason is echoed only; it is not stored.
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason for deprecation")
	return cmd
}
