package network

import (
	"context"
	"testing"

	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/stretchr/testify/require"
)

type cmd = Command[string, string]

func p(s string) path.Path {
	return path.MustParse(s)
}

func newNet(t *testing.T, cmds ...cmd) *Network[string, string] {
	t.Helper()
	n := New[string, string]()
	apply(t, n, cmds...)
	return n
}

func apply(t *testing.T, n *Network[string, string], cmds ...cmd) {
	t.Helper()
	for _, c := range cmds {
		require.NoError(t, n.Modify(context.Background(), c), "command %s", c)
	}
}

func peek(t *testing.T, n *Network[string, string], count int) *Peeked[string] {
	t.Helper()
	peeked, err := n.Peek(context.Background(), order.NewSeeded(1), count)
	require.NoError(t, err)
	return peeked
}

// peekApply peeks count items and finalizes them.
func peekApply(t *testing.T, n *Network[string, string], count int) []string {
	t.Helper()
	peeked := peek(t, n, count)
	items := peeked.Items()
	require.NoError(t, n.FinalizePeeked(context.Background(), peeked.Accept()))
	return items
}

func addBucket(parent string) cmd { return AddBucket[string, string](p(parent)) }
func addJoint(parent string) cmd { return AddJoint[string, string](p(parent)) }
func deleteEmpty(target string) cmd { return DeleteEmpty[string, string](p(target)) }
func clearBucket(target string) cmd { return ClearBucket[string, string](p(target)) }
func setWeight(target string, w uint32) cmd {
	return SetWeight[string, string](p(target), w)
}
func fill(target string, items ...string) cmd {
	return FillBucket[string, string](p(target), items...)
}
func setFilters(target string, filters ...string) cmd {
	return SetFilters[string, string](p(target), filters...)
}
func setOrder(target string, typ order.Type) cmd {
	return SetOrderType[string, string](p(target), typ)
}
