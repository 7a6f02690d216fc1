// internal/path/types.go
package path

import (
	"errors"
	"fmt"
	"slices"
)

// Delimiter separates (and prefixes) every index in the text form of a Path.
const Delimiter = "."

// ErrMissingStartDelim is returned when the input does not begin with Delimiter.
var ErrMissingStartDelim = errors.New("missing start delimiter (\".\")")

// ErrRemovedSelf is returned by ModifyForRemoved when the path denotes the
// removed node itself, or one of its descendants.
var ErrRemovedSelf = errors.New("path denotes the removed node")

// InvalidNumberError reports a path segment that is not a non-negative integer.
type InvalidNumberError struct {
	Input string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number: %q", e.Input)
}

// Path is the sequence of child indices leading from the root to a node.
// The zero value (nil) is the root.
type Path []int

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// Of builds a path from the given indices.
func Of(indices ...int) Path {
	return append(Path{}, indices...)
}

// IsRoot reports whether the path addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Len returns the depth of the addressed node below the root.
func (p Path) Len() int {
	return len(p)
}

// Clone returns a copy that shares no storage with p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Push appends a trailing index.
func (p *Path) Push(index int) {
	*p = append(*p, index)
}

// Pop removes and returns the trailing index, reporting false for the root.
func (p *Path) Pop() (int, bool) {
	if len(*p) == 0 {
		return 0, false
	}
	last := (*p)[len(*p)-1]
	*p = (*p)[:len(*p)-1]
	return last, true
}

// SplitLast returns the final index and the parent prefix. The parent shares
// storage with p. It reports false for the root.
func (p Path) SplitLast() (last int, parent Path, ok bool) {
	if len(p) == 0 {
		return 0, nil, false
	}
	return p[len(p)-1], p[:len(p)-1], true
}

// Child returns a new path addressing the index-th child of p.
func (p Path) Child(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, index)
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Compare orders paths lexicographically, a parent before its children.
func (p Path) Compare(other Path) int {
	return slices.Compare(p, other)
}

// HasPrefix reports whether p is prefix itself or one of its descendants.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}
