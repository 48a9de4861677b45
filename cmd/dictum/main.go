package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/decision"
	"github.com/steveyegge/dictum/internal/dictum"
)

// Command groups for organized help output
const (
	GroupDecisions = "decisions"
	GroupViews     = "views"
	GroupData      = "data"
	GroupSetup     = "setup"
)

// app holds the flag state and the opened store for one invocation.
type app struct {
	dir        string
	format     string
	jsonOutput bool
	verbose    bool
	quiet      bool

	// now overrides the clock; tests pin it.
	now func() time.Time

	ws  *dictum.Workspace
	svc *decision.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return (&app{}).execute(ctx, args, stdin, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.ws.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		a.reportError(stderr, err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dictum",
		Short: "dictum - track decisions over time",
		Long: `Decisions as a graph. Record what was decided, how it refines or
supersedes earlier decisions, and hand the active set to an agent.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.SetVerbose(a.verbose)
			debug.SetQuiet(a.quiet)
		},
	}

	root.PersistentFlags().StringVar(&a.dir, "dir", "", "Path to the .dictum directory (default: $DICTUM_DIR, or search upward from the working directory)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "Output format: text, json, jsonl (default: config default_format, else text on a terminal and json otherwise)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (same as --format json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose/debug output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress non-essential output (errors only)")
	root.Flags().BoolP("version", "V", false, "Print version information")

	root.AddGroup(
		&cobra.Group{ID: GroupDecisions, Title: "Working With Decisions:"},
		&cobra.Group{ID: GroupViews, Title: "Views:"},
		&cobra.Group{ID: GroupData, Title: "Import & Export:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup:"},
	)

	root.AddCommand(
		a.initCommand(),
		a.addCommand(),
		a.amendCommand(),
		a.deprecateCommand(),
		a.linkCommand(),
		a.unlinkCommand(),
		a.labelCommand(),
		a.showCommand(),
		a.listCommand(),
		a.treeCommand(),
		a.queryCommand(),
		a.contextCommand(),
		a.exportCommand(),
		a.importCommand(),
		versionCommand(),
	)
	return root
}

// open locates and opens the store. Commands other than init and version
// call it first; it fails with the not-initialized error when no
// .dictum directory is found.
func (a *app) open(ctx context.Context) error {
	if a.ws != nil {
		return nil
	}

	var (
		ws  *dictum.Workspace
		err error
	)
	if a.dir != "" {
		dir, aerr := filepath.Abs(a.dir)
		if aerr != nil {
			return aerr
		}
		ws, err = dictum.Open(ctx, dir)
	} else {
		ws, err = dictum.OpenFrom(ctx, ".")
	}
	if err != nil {
		return err
	}

	var opts []decision.Option
	if a.now != nil {
		opts = append(opts, decision.WithClock(a.now))
	}
	a.ws = ws
	a.svc = decision.NewService(ws.Store, ws.Config.Prefix, opts...)
	return nil
}
