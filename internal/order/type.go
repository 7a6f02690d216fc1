package order

import (
	"fmt"
	"strings"
)

// Type selects the ordering strategy of a node.
type Type int

const (
	// InOrder visits each child in turn, repeating it according to its weight.
	InOrder Type = iota
	// Random draws an independent weighted sample on every call.
	Random
	// Shuffle draws every weighted slot once per cycle in a random order.
	Shuffle
)

var typeNames = map[Type]string{
	InOrder: "in-order",
	Random:  "random",
	Shuffle: "shuffle",
}

// UnknownTypeError is returned by ParseType for unrecognised names.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown order type %q (expected in-order, random or shuffle)", e.Name)
}

// ParseType parses the textual form produced by Type.String. Matching is case
// insensitive and accepts "in_order" and "inorder" for in-order.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in-order", "in_order", "inorder":
		return InOrder, nil
	case "random":
		return Random, nil
	case "shuffle":
		return Shuffle, nil
	}
	return InOrder, &UnknownTypeError{Name: s}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("cannot marshal invalid order type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
