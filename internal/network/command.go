package network

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

// CommandKind enumerates the structural commands.
type CommandKind int

const (
	CmdAddBucket CommandKind = iota
	CmdAddJoint
	CmdDeleteEmpty
	CmdFillBucket
	CmdClearBucket
	CmdSetFilters
	CmdSetWeight
	CmdSetOrderType
)

var commandNames = []string{
	CmdAddBucket:    "add-bucket",
	CmdAddJoint:     "add-joint",
	CmdDeleteEmpty:  "delete-empty",
	CmdFillBucket:   "fill-bucket",
	CmdClearBucket:  "clear-bucket",
	CmdSetFilters:   "set-filters",
	CmdSetWeight:    "set-weight",
	CmdSetOrderType: "set-order-type",
}

// CommandKinds lists every kind in declaration order.
func CommandKinds() []CommandKind {
	kinds := make([]CommandKind, len(commandNames))
	for i := range kinds {
		kinds[i] = CommandKind(i)
	}
	return kinds
}

func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(s string) (CommandKind, error) {
	for i, name := range commandNames {
		if name == s {
			return CommandKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

func (k CommandKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(commandNames) {
		return nil, fmt.Errorf("unknown command kind %d", int(k))
	}
	return []byte(commandNames[k]), nil
}

func (k *CommandKind) UnmarshalText(text []byte) error {
	parsed, err := ParseCommandKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Command is one structural change to a network. Path is the parent for the
// add commands and the target node otherwise. Only the fields used by Kind are
// meaningful: Items for fill-bucket, Filters for set-filters, Weight for
// set-weight and Order for set-order-type.
type Command[T, U any] struct {
	Kind    CommandKind
	Path    path.Path
	Items   []T
	Filters []U
	Weight  uint32
	Order   order.Type
}

// AddBucket appends an empty bucket under parent.
func AddBucket[T, U any](parent path.Path) Command[T, U] {
	return Command[T, U]{Kind: CmdAddBucket, Path: parent}
}

// AddJoint appends an empty joint under parent.
func AddJoint[T, U any](parent path.Path) Command[T, U] {
	return Command[T, U]{Kind: CmdAddJoint, Path: parent}
}

// DeleteEmpty removes a node that has no items and no children.
func DeleteEmpty[T, U any](p path.Path) Command[T, U] {
	return Command[T, U]{Kind: CmdDeleteEmpty, Path: p}
}

// FillBucket appends items to a bucket's queue.
func FillBucket[T, U any](bucket path.Path, items ...T) Command[T, U] {
	return Command[T, U]{Kind: CmdFillBucket, Path: bucket, Items: items}
}

// ClearBucket drops every queued item of a bucket.
func ClearBucket[T, U any](bucket path.Path) Command[T, U] {
	return Command[T, U]{Kind: CmdClearBucket, Path: bucket}
}

// SetFilters replaces the filter tags of a node.
func SetFilters[T, U any](p path.Path, filters ...U) Command[T, U] {
	return Command[T, U]{Kind: CmdSetFilters, Path: p, Filters: filters}
}

// SetWeight sets a node's weight in its parent; 0 deactivates the node.
func SetWeight[T, U any](p path.Path, weight uint32) Command[T, U] {
	return Command[T, U]{Kind: CmdSetWeight, Path: p, Weight: weight}
}

// SetOrderType switches a node's strategy, discarding its cursor.
func SetOrderType[T, U any](p path.Path, typ order.Type) Command[T, U] {
	return Command[T, U]{Kind: CmdSetOrderType, Path: p, Order: typ}
}

// String renders the command in the line form read by package script, e.g.
// "fill-bucket .0 a b" or "set-weight .1 3". Arguments containing blanks or
// quotes are double quoted.
func (c Command[T, U]) String() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	b.WriteByte(' ')
	b.WriteString(c.Path.String())
	switch c.Kind {
	case CmdFillBucket:
		writeArgs(&b, c.Items)
	case CmdSetFilters:
		writeArgs(&b, c.Filters)
	case CmdSetWeight:
		fmt.Fprintf(&b, " %d", c.Weight)
	case CmdSetOrderType:
		b.WriteByte(' ')
		b.WriteString(c.Order.String())
	}
	return b.String()
}

func writeArgs[E any](b *strings.Builder, args []E) {
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quoteArg(fmt.Sprint(arg)))
	}
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\r\n\"'\\#") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
