package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/specialistvlad/spigot/internal/app"
	"github.com/specialistvlad/spigot/internal/fsutil"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/specialistvlad/spigot/internal/replay"
	"github.com/specialistvlad/spigot/internal/script"
	"github.com/specialistvlad/spigot/internal/tableview"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// usageArgs turns argument count errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

type globalFlags struct {
	configFile  string
	stateFile   string
	logLevel    string
	logFormat   string
	metricsFile string
	seed        uint64
	noColor     bool
}

// runner holds what the subcommands share once the root has parsed its flags.
type runner struct {
	outW  io.Writer
	errW  io.Writer
	flags globalFlags
	app   *app.App
}

// Run executes the spigot command line. Command output goes to outW, logs and
// diagnostics to errW.
func Run(ctx context.Context, args []string, outW, errW io.Writer) error {
	r := &runner{outW: outW, errW: errW}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetIn(os.Stdin)
	return root.ExecuteContext(ctx)
}

func (r *runner) rootCommand() *cobra.Command {
	defaults := app.DefaultConfig()

	root := &cobra.Command{
		Use:   "spigot",
		Short: "Spigot - a hierarchical weighted item scheduler.",
		Long: `Spigot keeps a tree of buckets and joints on disk and dispenses bucket items
in proportion to the weights along the tree.

The network lives in the state file as a replay log. Commands that change the
network rewrite it; peek, view and log only read it.`,
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.configure,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&r.flags.configFile, "config", "c", app.DefaultConfigFile, "Path to the HCL config file.")
	pf.StringVarP(&r.flags.stateFile, "state", "s", defaults.StateFile, "Path to the state file (.hcl, .yaml or .yml).")
	pf.StringVar(&r.flags.logLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&r.flags.logFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&r.flags.metricsFile, "metrics-file", "", "Write metrics in Prometheus text format to this file.")
	pf.Uint64Var(&r.flags.seed, "seed", defaults.Seed, "Seed for random and shuffle ordering.")
	pf.BoolVar(&r.flags.noColor, "no-color", false, "Disable colored table output.")

	root.AddCommand(
		r.runCommand(),
		r.peekCommand(),
		r.viewCommand(),
		r.logCommand(),
		r.modifyCommand(),
	)
	return root
}

// configure builds the App. Flags set on the command line override the config
// file, which overrides the defaults.
func (r *runner) configure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	cfg, err := app.LoadConfigFile(ctx, r.flags.configFile, app.DefaultConfig(), !flags.Changed("config"))
	if err != nil {
		return usageError(err)
	}
	if flags.Changed("state") {
		cfg.StateFile = r.flags.stateFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = r.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = r.flags.logFormat
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = r.flags.metricsFile
	}
	if flags.Changed("seed") {
		cfg.Seed = r.flags.seed
	}

	valid, err := app.NewConfig(cfg)
	if err != nil {
		return usageError(err)
	}
	r.app = app.NewApp(r.errW, valid)
	return nil
}

// scriptExtension marks script files when a directory is given to run.
const scriptExtension = ".spigot"

func (r *runner) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT...",
		Short: "Run scripts against the stored network ('-' reads stdin).",
		Long: `Run scripts against the stored network, one after the other. A directory
runs every *.spigot file below it in path order. A single '-' reads the script
from stdin. The network is saved after each script that succeeds.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "-" {
				return r.runScript(cmd.Context(), cmd.InOrStdin(), "stdin")
			}

			files, err := fsutil.ExpandFiles(args, scriptExtension)
			if err != nil {
				return err
			}
			for _, file := range files {
				if err := r.runFile(cmd.Context(), file); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (r *runner) runFile(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return r.runScript(ctx, f, file)
}

func (r *runner) runScript(ctx context.Context, src io.Reader, name string) error {
	log, err := r.app.RunScript(ctx, src, name)
	fmt.Fprint(r.outW, log.String())
	return err
}

func (r *runner) peekCommand() *cobra.Command {
	var (
		count      int
		showIDs    bool
		showEffort bool
	)
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Show the next items the network would dispense.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return usageError(fmt.Errorf("invalid count %d", count))
			}
			peeked, err := r.app.Peek(cmd.Context(), count)
			if err != nil {
				return err
			}

			line := fmt.Sprintf("peek %d", count)
			entry := script.Entry{Kind: script.EntryPeek, Line: line, Items: peeked.Items()}
			if showIDs {
				entry.Sources = peeked.Sources()
			}
			if showEffort {
				entry = script.Entry{Kind: script.EntryEffort, Line: line, Effort: peeked.Effort()}
			}
			fmt.Fprintln(r.outW, entry)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of items to draw.")
	cmd.Flags().BoolVar(&showIDs, "show-bucket-ids", false, "Show the bucket each item came from.")
	cmd.Flags().BoolVar(&showEffort, "show-effort", false, "Show the number of nodes visited instead of the items.")
	cmd.MarkFlagsMutuallyExclusive("show-bucket-ids", "show-effort")
	return cmd
}

func (r *runner) viewCommand() *cobra.Command {
	var (
		base  string
		depth int
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the network as a table.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := path.Parse(base)
			if err != nil {
				return usageError(fmt.Errorf("invalid base %q: %w", base, err))
			}
			view, err := r.app.View(cmd.Context(), p, depth)
			if err != nil {
				return err
			}
			color := colorEnabled(r.outW, r.flags.noColor)
			fmt.Fprintln(r.outW, tableview.Render(view, tableview.Options{Color: color}))
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", path.Root().String(), "Path of the first node to show.")
	cmd.Flags().IntVar(&depth, "depth", network.NoDepthLimit, "Levels below base to show (-1 for all).")
	return cmd
}

func (r *runner) logCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the replay log that rebuilds the network.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				f   replay.Format
				err error
			)
			if format == "" {
				f, err = replay.FormatFromPath(r.app.Config().StateFile)
			} else {
				f, err = replay.ParseFormat(format)
			}
			if err != nil {
				return usageError(err)
			}
			return r.app.WriteLog(cmd.Context(), r.outW, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format, 'hcl' or 'yaml'. Defaults to the state file's format.")
	return cmd
}

func (r *runner) modifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modify KIND ARGS...",
		Short: "Apply one command to the stored network.",
		Long: `Apply one command to the stored network, for example:

  spigot modify add-bucket .
  spigot modify fill-bucket .0 a b c
  spigot modify set-order-type . shuffle

Put '--' before items that start with a dash.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := script.CommandFromArgs(args)
			if err != nil {
				return usageError(err)
			}
			return r.app.Modify(cmd.Context(), c)
		},
	}
}

func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
