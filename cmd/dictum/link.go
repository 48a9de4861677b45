package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/types"
)

func (a *app) linkCommand() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "link <source> <kind> <target>",
		Short: "Create a relationship between decisions",
		Long: `Create a directed relationship from source to target.

Kinds: ` + strings.Join(types.LinkKinds(), ", ") + `.
"supersedes" also marks the target superseded by the source.`,
		GroupID: GroupDecisions,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := types.ParseLinkKind(args[1])
			if err != nil {
				return err
			}
			if err := a.open(ctx); err != nil {
				return err
			}
			link, err := a.svc.Link(ctx, args[0], kind, args[2], reason)
			if err != nil {
				return err
			}

			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			switch format {
			case formatText:
				fmt.Fprintf(cmd.OutOrStdout(), "Linked: %s %s %s\n", link.SourceID, link.Kind, link.TargetID)
				return nil
			case formatJSON:
				return outputJSON(cmd.OutOrStdout(), link)
			default:
				return outputJSONLine(cmd.OutOrStdout(), link)
			}
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the relationship holds")
	return cmd
}

func (a *app) unlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "unlink <source> <kind> <target>",
		Short:   "Remove a relationship between decisions",
		GroupID: GroupDecisions,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := types.ParseLinkKind(args[1])
			if err != nil {
				return err
			}
			if err := a.open(ctx); err != nil {
				return err
			}
			if err := a.svc.Unlink(ctx, args[0], kind, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked: %s %s %s\n", args[0], kind, args[2])
			return nil
		},
	}
}
