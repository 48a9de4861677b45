package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/steveyegge/dictum/internal/types"
)

// errFormCancelled is returned when the user aborts the form.
var errFormCancelled = errors.New("cancelled")

func enumOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

// runAddForm prompts for every add field, starting from the flag values.
func runAddForm(title *string, f *addFlags) error {
	labelsInput := strings.Join(f.labels, ", ")
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("The decision, stated as a sentence (required)").
				Placeholder("e.g., Store decisions in SQLite").
				Value(title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return types.ErrTitleRequired
					}
					return nil
				}),

			huh.NewText().
				Title("Body").
				Description("Context or rationale (optional)").
				CharLimit(5000).
				Value(&f.body),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Level").
				Options(enumOptions(types.Levels())...).
				Value(&f.level),

			huh.NewSelect[string]().
				Title("Kind").
				Options(enumOptions(types.Kinds())...).
				Value(&f.kind),

			huh.NewSelect[string]().
				Title("Weight").
				Options(enumOptions(types.Weights())...).
				Value(&f.weight),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Rebuttal").
				Description("When does this not apply? (optional)").
				Value(&f.rebuttal),

			huh.NewInput().
				Title("Scope").
				Description("Area this applies to (optional)").
				Value(&f.scope),

			huh.NewInput().
				Title("Parent").
				Description("ID of the decision this refines (optional)").
				Value(&f.parent),

			huh.NewInput().
				Title("Labels").
				Description("Comma-separated (optional)").
				Value(&labelsInput),

			huh.NewConfirm().
				Title("Record this decision?").
				Affirmative("Add").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errFormCancelled
		}
		return fmt.Errorf("form error: %w", err)
	}
	if !confirmed {
		return errFormCancelled
	}

	f.labels = splitLabels(labelsInput)
	return nil
}

func splitLabels(s string) []string {
	var out []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
