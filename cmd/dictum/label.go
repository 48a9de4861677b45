package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/types"
)

type labelFunc func(ctx context.Context, id string, labels []string) (*types.Decision, error)

func (a *app) labelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "label",
		Short:   "Manage decision labels",
		GroupID: GroupDecisions,
	}
	cmd.AddCommand(
		a.labelSubcommand("add", "Attach labels to a decision", "Labeled",
			func(ctx context.Context, id string, labels []string) (*types.Decision, error) {
				return a.svc.AddLabels(ctx, id, labels)
			}),
		a.labelSubcommand("remove", "Detach labels from a decision", "Unlabeled",
			func(ctx context.Context, id string, labels []string) (*types.Decision, error) {
				return a.svc.RemoveLabels(ctx, id, labels)
			}),
	)
	return cmd
}

func (a *app) labelSubcommand(use, short, verb string, apply labelFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <label>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			d, err := apply(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s %s: %s", verb, d.ID, strings.Join(args[1:], ", "))
			return writeDecision(cmd.OutOrStdout(), format, d, text)
		},
	}
}
