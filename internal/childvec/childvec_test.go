package childvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildVec_PushKeepsUnity(t *testing.T) {
	var c ChildVec[string]
	_, ok := c.Weights()
	assert.False(t, ok, "empty collection has no selection target")

	c.Push("a")
	c.Push("b")

	w, ok := c.Weights()
	require.True(t, ok)
	assert.True(t, w.IsUnity())
	assert.Equal(t, 2, w.Len())
	assert.False(t, c.HasExplicitWeights())
}

func TestChildVec_SetWeightMaterialises(t *testing.T) {
	c := From("a", "b", "c")
	c.SetWeight(1, 5)

	w, ok := c.Weights()
	require.True(t, ok)
	assert.False(t, w.IsUnity())
	assert.Equal(t, []uint32{1, 5, 1}, []uint32{w.Get(0), w.Get(1), w.Get(2)})

	c.Push("d")
	assert.Equal(t, uint32(1), c.Weight(3), "push after materialising extends with unity")
	assert.Equal(t, uint64(8), mustWeights(t, &c).Total())
}

func TestChildVec_AllZero(t *testing.T) {
	c := From(1, 2)
	c.SetWeight(0, 0)
	c.SetWeight(1, 0)

	_, ok := c.Weights()
	assert.False(t, ok, "all-zero collection has no selection target")
	assert.Equal(t, 2, c.Len(), "inactive children stay in place")
}

func TestChildVec_Remove(t *testing.T) {
	t.Run("unity", func(t *testing.T) {
		c := From("a", "b", "c")
		weight, child := c.Remove(1)
		assert.Equal(t, uint32(1), weight)
		assert.Equal(t, "b", child)
		assert.Equal(t, []string{"a", "c"}, c.Children())
	})

	t.Run("explicit", func(t *testing.T) {
		c := From("a", "b", "c")
		c.SetWeight(0, 5)
		c.SetWeight(2, 7)
		weight, child := c.Remove(0)
		assert.Equal(t, uint32(5), weight)
		assert.Equal(t, "a", child)
		assert.Equal(t, uint32(1), c.Weight(0))
		assert.Equal(t, uint32(7), c.Weight(1))
	})
}

func TestChildVec_OutOfRangePanics(t *testing.T) {
	c := From("a")
	assert.Panics(t, func() { c.At(1) })
	assert.Panics(t, func() { c.Remove(-1) })
	assert.Panics(t, func() { c.SetWeight(3, 1) })

	w := mustWeights(t, &c)
	assert.Panics(t, func() { w.Get(1) })
}

func mustWeights[T any](t *testing.T, c *ChildVec[T]) Weights {
	t.Helper()
	w, ok := c.Weights()
	require.True(t, ok)
	return w
}
