package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/ui"
)

func (a *app) contextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Dump active decisions as compact context for agents",
		Long: `Dump the active decisions grouped by level.

Text output is markdown (rendered on a terminal). JSON output drops
timestamps and status and includes each decision's links.`,
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			snap, err := a.svc.Context(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			format, err := a.outputFormat(out)
			if err != nil {
				return err
			}
			switch format {
			case formatJSON:
				return outputJSON(out, contextEntries(snap))
			case formatJSONL:
				for _, e := range contextEntries(snap) {
					if err := outputJSONLine(out, e); err != nil {
						return err
					}
				}
				return nil
			}

			md := formatContextMarkdown(snap)
			if isTerminal(out) {
				md = ui.RenderMarkdown(md)
			}
			_, err = io.WriteString(out, md)
			return err
		},
	}
}
