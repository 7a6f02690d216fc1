package script

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/shlex"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

// Command is the network command type scripts operate on.
type Command = network.Command[string, string]

// ErrEmptyCommand is returned when a line holds no tokens.
var ErrEmptyCommand = errors.New("empty command")

// Tokenize splits a line like a POSIX shell would.
func Tokenize(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %q: %w", line, err)
	}
	return tokens, nil
}

// ParseCommand parses the text form written by network.Command.String, for
// example `fill-bucket .0 a "b c"`.
func ParseCommand(line string) (Command, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return Command{}, err
	}
	return CommandFromArgs(tokens)
}

// CommandFromArgs builds a command from already split arguments, the first
// naming the command kind.
func CommandFromArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrEmptyCommand
	}
	kind, err := network.ParseCommandKind(args[0])
	if err != nil {
		return Command{}, err
	}
	if err := argsFor(kind).validate(args[1:]); err != nil {
		return Command{}, fmt.Errorf("%s: %w", kind, err)
	}
	return buildCommand(kind, args[1:])
}

// argSpec describes the positional arguments of a command kind.
type argSpec struct {
	use  string
	min  int
	max  int // -1 for unbounded
	help string
}

func (a argSpec) validate(args []string) error {
	if len(args) < a.min || (a.max >= 0 && len(args) > a.max) {
		return fmt.Errorf("usage: %s", a.use)
	}
	return nil
}

func argsFor(kind network.CommandKind) argSpec {
	switch kind {
	case network.CmdAddBucket:
		return argSpec{use: "add-bucket PARENT", min: 1, max: 1, help: "Append an empty bucket under PARENT"}
	case network.CmdAddJoint:
		return argSpec{use: "add-joint PARENT", min: 1, max: 1, help: "Append an empty joint under PARENT"}
	case network.CmdDeleteEmpty:
		return argSpec{use: "delete-empty PATH", min: 1, max: 1, help: "Delete a node with no items and no children"}
	case network.CmdFillBucket:
		return argSpec{use: "fill-bucket BUCKET [ITEM...]", min: 1, max: -1, help: "Append items to a bucket"}
	case network.CmdClearBucket:
		return argSpec{use: "clear-bucket BUCKET", min: 1, max: 1, help: "Drop every item of a bucket"}
	case network.CmdSetFilters:
		return argSpec{use: "set-filters PATH [FILTER...]", min: 1, max: -1, help: "Replace the filters of a node"}
	case network.CmdSetWeight:
		return argSpec{use: "set-weight PATH WEIGHT", min: 2, max: 2, help: "Set the weight of a node in its parent"}
	case network.CmdSetOrderType:
		return argSpec{use: "set-order-type PATH in-order|random|shuffle", min: 2, max: 2, help: "Set how a node picks among its children"}
	}
	panic("script: unknown command kind " + kind.String())
}

// buildCommand converts validated positional arguments into a command.
func buildCommand(kind network.CommandKind, args []string) (Command, error) {
	p, err := path.Parse(args[0])
	if err != nil {
		return Command{}, fmt.Errorf("%s: invalid path %q: %w", kind, args[0], err)
	}
	rest := args[1:]

	switch kind {
	case network.CmdAddBucket:
		return network.AddBucket[string, string](p), nil
	case network.CmdAddJoint:
		return network.AddJoint[string, string](p), nil
	case network.CmdDeleteEmpty:
		return network.DeleteEmpty[string, string](p), nil
	case network.CmdFillBucket:
		return network.FillBucket[string, string](p, rest...), nil
	case network.CmdClearBucket:
		return network.ClearBucket[string, string](p), nil
	case network.CmdSetFilters:
		return network.SetFilters[string, string](p, rest...), nil
	case network.CmdSetWeight:
		weight, err := strconv.ParseUint(rest[0], 10, 32)
		if err != nil {
			return Command{}, fmt.Errorf("%s: invalid weight %q: %w", kind, rest[0], err)
		}
		return network.SetWeight[string, string](p, uint32(weight)), nil
	case network.CmdSetOrderType:
		typ, err := order.ParseType(rest[0])
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", kind, err)
		}
		return network.SetOrderType[string, string](p, typ), nil
	}
	panic("script: unknown command kind " + kind.String())
}
