package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/timeparsing"
	"github.com/steveyegge/dictum/internal/tree"
	"github.com/steveyegge/dictum/internal/types"
)

type listFlags struct {
	tree   bool
	level  string
	status string
	kind   string
	weight string
	scope  string
	label  string
	since  string
	watch  bool
}

// filter parses every flag into a ListFilter; unset flags stay nil.
func (f *listFlags) filter(now time.Time) (types.ListFilter, error) {
	var filter types.ListFilter
	if f.level != "" {
		v, err := types.ParseLevel(f.level)
		if err != nil {
			return filter, err
		}
		filter.Level = &v
	}
	if f.status != "" {
		v, err := types.ParseStatus(f.status)
		if err != nil {
			return filter, err
		}
		filter.Status = &v
	}
	if f.kind != "" {
		v, err := types.ParseKind(f.kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = &v
	}
	if f.weight != "" {
		v, err := types.ParseWeight(f.weight)
		if err != nil {
			return filter, err
		}
		filter.Weight = &v
	}
	if f.scope != "" {
		filter.Scope = &f.scope
	}
	if f.label != "" {
		filter.Label = &f.label
	}
	if f.since != "" {
		t, err := timeparsing.ParseSince(f.since, now)
		if err != nil {
			return filter, err
		}
		filter.CreatedAfter = &t
	}
	return filter, nil
}

func (a *app) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *app) listCommand() *cobra.Command {
	f := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decisions",
		Long: `List decisions, newest first.

Filters combine with AND. --since accepts compact durations (7d, -2w),
dates (2025-01-31), RFC3339 timestamps or phrases like "last monday".`,
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			filter, err := f.filter(a.clock())
			if err != nil {
				return err
			}
			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			render := func(w io.Writer) error {
				decisions, err := a.ws.Store.ListDecisions(ctx, filter)
				if err != nil {
					return err
				}
				if f.tree {
					return a.renderTree(ctx, w, decisions)
				}
				return writeDecisionList(w, format, decisions)
			}
			if f.watch {
				return a.watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), render)
			}
			return render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&f.tree, "tree", false, "Show as hierarchy (refines links)")
	cmd.Flags().StringVarP(&f.level, "level", "l", "", "Filter by level")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Filter by status")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "Filter by kind")
	cmd.Flags().StringVarP(&f.weight, "weight", "w", "", "Filter by weight")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Filter by scope")
	cmd.Flags().StringVar(&f.label, "label", "", "Filter by label")
	cmd.Flags().StringVar(&f.since, "since", "", "Only decisions created at or after this time")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Re-render when the store changes (Ctrl+C to exit)")
	return cmd
}

func (a *app) treeCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:     "tree",
		Short:   "Show the refines hierarchy of every decision",
		GroupID: GroupViews,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			render := func(w io.Writer) error {
				decisions, err := a.ws.Store.ListDecisions(ctx, types.ListFilter{})
				if err != nil {
					return err
				}
				return a.renderTree(ctx, w, decisions)
			}
			if watch {
				return a.watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), render)
			}
			return render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when the store changes (Ctrl+C to exit)")
	return cmd
}

// renderTree writes the refines forest over decisions.
func (a *app) renderTree(ctx context.Context, w io.Writer, decisions []*types.Decision) error {
	edges, err := a.ws.Store.GetRefinesEdges(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, tree.Render(decisions, edges))
	return err
}
