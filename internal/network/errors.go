package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/spigot/internal/path"
)

// ErrInvalidPath is matched (via errors.Is) by every error reporting that a
// command's path does not resolve to a node of the required kind.
var ErrInvalidPath = errors.New("invalid path")

// kindError is a sentinel for a path that resolves to the wrong kind of node.
type kindError struct {
	msg string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == ErrInvalidPath }

var (
	// ErrAddToBucket means the parent of a new node is a bucket.
	ErrAddToBucket error = &kindError{msg: "cannot add to bucket"}
	// ErrDeleteRoot means DeleteEmpty targeted the spigot.
	ErrDeleteRoot error = &kindError{msg: "cannot delete the spigot (root node)"}
	// ErrFilterRoot means SetFilters targeted the spigot.
	ErrFilterRoot error = &kindError{msg: "cannot filter the spigot (root node)"}
	// ErrWeightRoot means SetWeight targeted the spigot.
	ErrWeightRoot error = &kindError{msg: "cannot weight the spigot (root node)"}
	// ErrFillJoint means FillBucket or ClearBucket targeted a joint or the spigot.
	ErrFillJoint error = &kindError{msg: "cannot fill joint (only buckets have items)"}
)

// ErrStalePeek is returned by FinalizePeeked when the network changed shape
// (or the token is empty) since the peek was taken.
var ErrStalePeek = errors.New("stale peek: the network changed since it was peeked")

// UnknownPathError reports a path that does not resolve to any node.
type UnknownPathError struct {
	Path path.Path
}

func (e *UnknownPathError) Error() string {
	return "unknown path: " + e.Path.String()
}

func (e *UnknownPathError) Is(target error) bool { return target == ErrInvalidPath }

// NonEmptyError reports a DeleteEmpty on a node that still holds data.
// Children lists the paths of a joint's children; Items is a bucket's queue
// length.
type NonEmptyError struct {
	Path     path.Path
	Kind     NodeKind
	Children []path.Path
	Items    int
}

func (e *NonEmptyError) Error() string {
	if e.Kind == KindBucket {
		return fmt.Sprintf("cannot delete non-empty bucket: %s (%d items)", e.Path, e.Items)
	}
	blocking := make([]string, len(e.Children))
	for i, child := range e.Children {
		blocking[i] = child.String()
	}
	return fmt.Sprintf("cannot delete non-empty joint: %s (children %s)", e.Path, strings.Join(blocking, ", "))
}

func kindErrorAt(sentinel error, p path.Path) error {
	return fmt.Errorf("%w: %s", sentinel, p)
}
