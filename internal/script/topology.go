package script

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/spigot/internal/network"
)

// Topology renders a full depth-first view (as returned by Network.View from
// the spigot with no depth limit) as nested brackets. Joints are bracketed
// lists of their children. Buckets show their item count, or with weights set,
// every node is prefixed by its weight and buckets show nothing else:
//
//	[[[3] 3] 3]          counts
//	[4[2[200] 1] 1]      weights
func Topology[U any](view []network.NodeDetails[U], weights bool) string {
	if len(view) == 0 {
		return "[]"
	}
	var b strings.Builder
	writeTopology(&b, view, 0, weights, true)
	return b.String()
}

// writeTopology writes view[i] and its subtree, returning the index after it.
func writeTopology[U any](b *strings.Builder, view []network.NodeDetails[U], i int, weights, isBase bool) int {
	d := view[i]
	if weights && !isBase {
		b.WriteString(strconv.FormatUint(uint64(d.Weight), 10))
	}
	if d.Kind == network.KindBucket {
		if !weights {
			b.WriteString(strconv.Itoa(d.Count))
		}
		return i + 1
	}

	b.WriteByte('[')
	next := i + 1
	for c := range d.Count {
		if next >= len(view) {
			break
		}
		if c > 0 {
			b.WriteByte(' ')
		}
		next = writeTopology(b, view, next, weights, false)
	}
	b.WriteByte(']')
	return next
}
