package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/importer"
)

// errStdinTerminal is returned by import when there is nothing piped in.
var errStdinTerminal = errors.New("no input file specified and stdin is a terminal\n" +
	"Usage: dictum import -i <file>  or  cat file.jsonl | dictum import")

func (a *app) exportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export all decisions as JSONL",
		GroupID: GroupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) // #nosec G304 - user-chosen export path
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			n, err := importer.Export(ctx, a.ws.Store, w)
			if err != nil {
				return err
			}
			if output != "" && !debug.IsQuiet() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d decisions\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) importCommand() *cobra.Command {
	var (
		input  string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import decisions from JSONL",
		Long: `Import decisions from a JSONL export, from -i or piped stdin.

Decisions whose id already exists are skipped. Links are added after all
decisions, so a link may refer to a decision later in the file; links whose
endpoints are missing are skipped.`,
		GroupID: GroupData,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var r io.Reader
			if input != "" {
				f, err := os.Open(input) // #nosec G304 - user-chosen import path
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", input, err)
				}
				defer func() { _ = f.Close() }()
				r = f
			} else {
				if isTerminal(cmd.InOrStdin()) {
					return errStdinTerminal
				}
				r = cmd.InOrStdin()
			}

			if err := a.open(ctx); err != nil {
				return err
			}
			res, err := importer.Import(ctx, a.ws.Store, r, importer.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			if dryRun {
				for _, d := range res.Planned {
					fmt.Fprintf(cmd.OutOrStdout(), "Would import: [%s] %s\n", d.ID, d.Title)
				}
				fmt.Fprintf(stderr, "Dry run: %d decisions would be imported\n", res.Created)
			} else {
				fmt.Fprintf(stderr, "Imported %d decisions, %d links\n", res.Created, res.Links)
			}
			if res.Skipped > 0 {
				fmt.Fprintf(stderr, "Skipped %d existing decisions\n", res.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	return cmd
}
