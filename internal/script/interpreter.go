package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

const expectErrorAnnotation = "!!expect_error"

// Interpreter executes script lines against a network.
type Interpreter struct {
	net *network.Network[string, string]
	rng order.Rand
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRand sets the random source used by peeks. The default is
// order.NewSeeded(0).
func WithRand(rng order.Rand) Option {
	return func(in *Interpreter) {
		in.rng = rng
	}
}

// New returns an interpreter operating on net.
func New(net *network.Network[string, string], opts ...Option) *Interpreter {
	in := &Interpreter{net: net, rng: order.NewSeeded(0)}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Network returns the network the interpreter modifies.
func (in *Interpreter) Network() *network.Network[string, string] {
	return in.net
}

// MismatchError is returned by peek-assert when the peeked items differ.
type MismatchError struct {
	Want []string
	Got  []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("peek mismatch: want %s, got %s", bracket(e.Want), bracket(e.Got))
}

// Run executes a whole script and returns the collected log. On failure the
// entries logged so far are returned along with the error.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) (Log, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		log        Log
		expectLine int
		lineNumber int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, expectErrorAnnotation) {
			if expectLine != 0 {
				return log, fmt.Errorf("line %d: duplicate %s (first on line %d)", lineNumber, expectErrorAnnotation, expectLine)
			}
			expectLine = lineNumber
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := in.Exec(ctx, line)
		if expectLine != 0 {
			expectLine = 0
			if err == nil {
				return log, fmt.Errorf("line %d: %q: expected an error", lineNumber, line)
			}
			logger.Debug("Script command failed as expected.", "line", lineNumber, "error", err)
			log = append(log, Entry{Kind: EntryExpectError, Line: line, Error: err.Error()})
			continue
		}
		if err != nil {
			return log, fmt.Errorf("line %d: %q: %w", lineNumber, line, err)
		}
		if entry != nil {
			log = append(log, *entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return log, fmt.Errorf("failed to read script: %w", err)
	}
	if expectLine != 0 {
		return log, fmt.Errorf("line %d: %s is not followed by a command", expectLine, expectErrorAnnotation)
	}

	logger.Debug("Script finished.", "lines", lineNumber, "entries", len(log))
	return log, nil
}

// RunString is Run over an in-memory script.
func (in *Interpreter) RunString(ctx context.Context, script string) (Log, error) {
	return in.Run(ctx, strings.NewReader(script))
}

// Exec executes one command line. It returns the entry the command logs, or
// nil for commands that log nothing.
func (in *Interpreter) Exec(ctx context.Context, line string) (*Entry, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	var entry *Entry
	root := in.commandTree(line, &entry)
	root.SetArgs(tokens)
	if err := root.ExecuteContext(ctx); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Script command executed.", "command", tokens[0], "logged", entry != nil)
	return entry, nil
}

// commandTree builds a fresh command tree for one line; cobra keeps flag
// values on the command, so trees are not reused.
func (in *Interpreter) commandTree(line string, out **Entry) *cobra.Command {
	root := &cobra.Command{
		Use:           "script",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	root.AddCommand(
		in.modifyCommand(line, out),
		in.peekCommand(line, out),
		in.peekAssertCommand(line, out),
		in.topologyCommand(line, out),
		in.getFiltersCommand(line, out),
		in.bucketsNeedingFillCommand(line, out),
		in.seedCommand(),
	)
	return root
}

func (in *Interpreter) modifyCommand(line string, out **Entry) *cobra.Command {
	modify := &cobra.Command{
		Use:   "modify COMMAND",
		Short: "Apply a structural command to the network",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return fmt.Errorf("modify: missing command")
		},
	}
	for _, kind := range network.CommandKinds() {
		spec := argsFor(kind)
		modify.AddCommand(&cobra.Command{
			Use:                spec.use,
			Short:              spec.help,
			DisableFlagParsing: true,
			Args: func(_ *cobra.Command, args []string) error {
				return spec.validate(args)
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := buildCommand(kind, args)
				if err != nil {
					return err
				}
				if err := in.net.Modify(cmd.Context(), c); err != nil {
					return err
				}
				switch kind {
				case network.CmdAddBucket, network.CmdFillBucket, network.CmdSetFilters:
					*out = &Entry{Kind: EntryBucketsNeedingFill, Line: line, Paths: in.net.BucketsNeedingFill()}
				}
				return nil
			},
		})
	}
	return modify
}

func (in *Interpreter) peekCommand(line string, out **Entry) *cobra.Command {
	var apply, showIDs, showEffort bool
	cmd := &cobra.Command{
		Use:   "peek COUNT",
		Short: "Show the next COUNT items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count < 0 {
				return fmt.Errorf("invalid count %q", args[0])
			}
			peeked, err := in.peek(cmd.Context(), count, apply)
			if err != nil {
				return err
			}
			entry := &Entry{Kind: EntryPeek, Line: line, Items: nonNil(peeked.Items())}
			if showIDs {
				entry.Sources = nonNil(peeked.Sources())
			}
			if showEffort {
				entry.Kind = EntryEffort
				entry.Effort = peeked.Effort()
			}
			*out = entry
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "finalize the peek")
	cmd.Flags().BoolVar(&showIDs, "show-bucket-ids", false, "log the source bucket of each item")
	cmd.Flags().BoolVar(&showEffort, "show-effort", false, "log the lookup effort instead of the items")
	return cmd
}

func (in *Interpreter) peekAssertCommand(line string, out **Entry) *cobra.Command {
	var apply, showEffort bool
	cmd := &cobra.Command{
		Use:   "peek-assert ITEM...",
		Short: "Fail unless the next items are exactly ITEM...",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peeked, err := in.peek(cmd.Context(), len(args), false)
			if err != nil {
				return err
			}
			if !slices.Equal(args, peeked.Items()) {
				return &MismatchError{Want: args, Got: nonNil(peeked.Items())}
			}
			if apply {
				if err := in.net.FinalizePeeked(cmd.Context(), peeked.Accept()); err != nil {
					return err
				}
			}
			if showEffort {
				*out = &Entry{Kind: EntryEffort, Line: line, Effort: peeked.Effort()}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "finalize the peek when it matches")
	cmd.Flags().BoolVar(&showEffort, "show-effort", false, "log the lookup effort")
	return cmd
}

func (in *Interpreter) peek(ctx context.Context, count int, apply bool) (*network.Peeked[string], error) {
	peeked, err := in.net.Peek(ctx, in.rng, count)
	if err != nil {
		return nil, err
	}
	if apply {
		if err := in.net.FinalizePeeked(ctx, peeked.Accept()); err != nil {
			return nil, err
		}
	}
	return peeked, nil
}

func (in *Interpreter) topologyCommand(line string, out **Entry) *cobra.Command {
	return &cobra.Command{
		Use:       "topology [weights]",
		Short:     "Show the tree shape with item counts or weights",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"weights"},
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := in.net.View(path.Root(), network.NoDepthLimit)
			if err != nil {
				return err
			}
			*out = &Entry{Kind: EntryTopology, Line: line, Topology: Topology(view, len(args) == 1)}
			return nil
		},
	}
}

func (in *Interpreter) getFiltersCommand(line string, out **Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "get-filters PATH",
		Short: "Show the filter sets from the spigot down to PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}
			filters, err := in.net.Filters(p)
			if err != nil {
				return err
			}
			*out = &Entry{Kind: EntryFilters, Line: line, Filters: filters}
			return nil
		},
	}
}

func (in *Interpreter) bucketsNeedingFillCommand(line string, out **Entry) *cobra.Command {
	return &cobra.Command{
		Use:   "buckets-needing-fill",
		Short: "List buckets waiting for items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			*out = &Entry{Kind: EntryBucketsNeedingFill, Line: line, Paths: in.net.BucketsNeedingFill()}
			return nil
		},
	}
}

func (in *Interpreter) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed N",
		Short: "Restart the random source from seed N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed %q: %w", args[0], err)
			}
			in.rng = order.NewSeeded(seed)
			return nil
		},
	}
}

func nonNil[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}
