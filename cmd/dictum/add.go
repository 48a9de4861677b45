package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/config"
	"github.com/steveyegge/dictum/internal/decision"
	"github.com/steveyegge/dictum/internal/types"
)

type addFlags struct {
	level       string
	kind        string
	weight      string
	parent      string
	labels      []string
	body        string
	rebuttal    string
	scope       string
	author      string
	draft       bool
	interactive bool
}

// params parses the enumerations at the boundary and resolves the author.
func (f *addFlags) params(title string) (decision.AddParams, error) {
	p := decision.AddParams{
		Title:    title,
		Body:     f.body,
		Rebuttal: f.rebuttal,
		Scope:    f.scope,
		Parent:   f.parent,
		Labels:   f.labels,
		Draft:    f.draft,
		Author:   config.ResolveAuthor(f.author),
	}
	var err error
	if p.Level, err = types.ParseLevel(f.level); err != nil {
		return p, err
	}
	if p.Kind, err = types.ParseKind(f.kind); err != nil {
		return p, err
	}
	if p.Weight, err = types.ParseWeight(f.weight); err != nil {
		return p, err
	}
	return p, nil
}

func (a *app) addCommand() *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a decision",
		Long: `Add a decision.

The decision starts active (or draft with --draft). With --parent it refines
an existing decision; the parent must exist. Use --interactive for a form.`,
		GroupID: GroupDecisions,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}

			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			if f.interactive {
				if !isTerminal(cmd.InOrStdin()) {
					return fmt.Errorf("--interactive needs a terminal on stdin")
				}
				if err := runAddForm(&title, f); err != nil {
					return err
				}
			}
			if title == "" {
				return types.ErrTitleRequired
			}

			p, err := f.params(title)
			if err != nil {
				return err
			}
			d, err := a.svc.Add(ctx, p)
			if err != nil {
				return err
			}

			format, err := a.outputFormat(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writeDecision(cmd.OutOrStdout(), format, d, "Added: "+d.ID)
		},
	}

	cmd.Flags().StringVarP(&f.level, "level", "l", string(types.LevelTactical), "Level: strategic, tactical, operational")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", string(types.KindChoice), "Kind: principle, constraint, assumption, choice, rule, goal")
	cmd.Flags().StringVarP(&f.weight, "weight", "w", string(types.WeightShould), "Weight: must, should, may")
	cmd.Flags().StringVarP(&f.parent, "parent", "p", "", "Parent decision ID (creates a refines link)")
	cmd.Flags().StringArrayVar(&f.labels, "label", nil, "Label to tag the decision (repeatable)")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Additional context or rationale")
	cmd.Flags().StringVar(&f.rebuttal, "rebuttal", "", "Condition under which the decision does not apply")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Area the decision applies to")
	cmd.Flags().StringVar(&f.author, "author", "", "Author name (default: config default_author, $DICTUM_ACTOR, $USER)")
	cmd.Flags().BoolVar(&f.draft, "draft", false, "Record as a draft instead of active")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the decision with an interactive form")
	return cmd
}
