package script

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/path"
)

// EntryKind tells which fields of an Entry are set.
type EntryKind int

const (
	EntryBucketsNeedingFill EntryKind = iota
	EntryFilters
	EntryPeek
	EntryEffort
	EntryTopology
	EntryExpectError
)

// Entry is one logged result. Line is the script command that produced it.
type Entry struct {
	Kind EntryKind
	Line string

	Paths    []path.Path
	Filters  [][]string
	Items    []string
	Sources  []network.BucketID
	Effort   uint64
	Topology string
	Error    string
}

// String renders the entry on one line, e.g. `peek [a b c]` or
// `modify add-bucket . => needs-fill [.0]`.
func (e Entry) String() string {
	switch e.Kind {
	case EntryBucketsNeedingFill:
		return fmt.Sprintf("%s => needs-fill %s", e.Line, bracket(e.Paths))
	case EntryFilters:
		sets := make([]string, len(e.Filters))
		for i, set := range e.Filters {
			sets[i] = bracket(set)
		}
		return fmt.Sprintf("%s => %s", e.Line, "["+strings.Join(sets, " ")+"]")
	case EntryPeek:
		s := fmt.Sprintf("%s => %s", e.Line, bracket(e.Items))
		if e.Sources != nil {
			s += " from " + bracket(e.Sources)
		}
		return s
	case EntryEffort:
		return fmt.Sprintf("%s => effort %d", e.Line, e.Effort)
	case EntryTopology:
		return fmt.Sprintf("%s => %s", e.Line, e.Topology)
	case EntryExpectError:
		return fmt.Sprintf("%s => error: %s", e.Line, e.Error)
	}
	return fmt.Sprintf("%s => ?", e.Line)
}

func bracket[E any](elems []E) string {
	parts := make([]string, len(elems))
	for i, elem := range elems {
		parts[i] = fmt.Sprint(elem)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Log is the ordered output of a script run.
type Log []Entry

// String renders one entry per line.
func (l Log) String() string {
	var b strings.Builder
	for _, e := range l {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
