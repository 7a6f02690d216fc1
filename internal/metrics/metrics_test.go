package metrics

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObservesNetwork(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c := New(reg)
	n := network.New[string, string](network.WithObserver(c))

	// --- Act ---
	require.NoError(t, n.Modify(ctx, network.AddBucket[string, string](path.Root())))
	require.NoError(t, n.Modify(ctx, network.FillBucket[string, string](path.Of(0), "a", "b")))
	require.Error(t, n.Modify(ctx, network.FillBucket[string, string](path.Of(5), "x")))

	peeked, err := n.Peek(ctx, order.NewSeeded(1), 3)
	require.NoError(t, err)
	require.NoError(t, n.FinalizePeeked(ctx, peeked.Accept()))

	stale, err := n.Peek(ctx, order.NewSeeded(1), 1)
	require.NoError(t, err)
	require.NoError(t, n.Modify(ctx, network.AddBucket[string, string](path.Root())))
	require.ErrorIs(t, n.FinalizePeeked(ctx, stale.Accept()), network.ErrStalePeek)

	// --- Assert ---
	assert.Equal(t, 2.0, testutil.ToFloat64(c.commands.WithLabelValues("add-bucket", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("fill-bucket", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("fill-bucket", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.peeks))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.requested))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.produced))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finalizes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finalizes.WithLabelValues("stale")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.effort))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.CommandApplied(network.CmdAddJoint, nil)
	c.Peeked(5, 2, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, `spigot_network_commands_total{command="add-joint",result="ok"} 1`)
	assert.Contains(t, out, "spigot_network_peek_requested_items_total 5")
	assert.Contains(t, out, "spigot_network_peek_produced_items_total 2")
	assert.Contains(t, out, "spigot_network_peek_effort_count 1")
	assert.Contains(t, out, "spigot_network_peek_effort_sum 7")
}
