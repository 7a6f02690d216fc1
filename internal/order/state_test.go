package order

import (
	"testing"

	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightsOf(t *testing.T, values ...uint32) childvec.Weights {
	t.Helper()
	w, ok := childvec.Explicit(values)
	require.True(t, ok, "weights must have a non-zero entry")
	return w
}

func unity(t *testing.T, n int) childvec.Weights {
	t.Helper()
	w, ok := childvec.Unity(n)
	require.True(t, ok)
	return w
}

func draw(t *testing.T, s *State, rng Rand, w childvec.Weights, n int) []int {
	t.Helper()
	out := make([]int, 0, n)
	for range n {
		idx, err := s.Next(rng, w)
		require.NoError(t, err)
		out = append(out, idx)
	}
	return out
}

// failingRand fails the test if a strategy asks for randomness it should not need.
type failingRand struct{ t *testing.T }

func (f failingRand) IntN(int) (int, error) {
	f.t.Fatal("in-order strategy must not draw randomness")
	return 0, nil
}

func TestInOrder_Unity(t *testing.T) {
	s := NewState(InOrder)
	rng := failingRand{t}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 0}, draw(t, &s, rng, unity(t, 6), 7))
	assert.Equal(t, []int{1, 2, 0, 1}, draw(t, &s, rng, unity(t, 3), 4))
	assert.Equal(t, []int{0, 0}, draw(t, &s, rng, unity(t, 1), 2))
}

func TestInOrder_Weighted(t *testing.T) {
	s := NewState(InOrder)
	got := draw(t, &s, failingRand{t}, weightsOf(t, 2, 0, 1), 9)
	assert.Equal(t, []int{0, 0, 2, 0, 0, 2, 0, 0, 2}, got)
}

func TestInOrder_WeightChangeKeepsTally(t *testing.T) {
	s := NewState(InOrder)
	rng := failingRand{t}

	assert.Equal(t, []int{0, 0}, draw(t, &s, rng, weightsOf(t, 3, 1), 2))

	s.Invalidate()
	// Index 0 already had two visits, which meets its new weight of 2.
	assert.Equal(t, []int{1, 0, 0, 1}, draw(t, &s, rng, weightsOf(t, 2, 1), 4))

	s.Invalidate()
	// An inactive index is skipped when the cursor wraps.
	assert.Equal(t, []int{1, 1}, draw(t, &s, rng, weightsOf(t, 0, 1), 2))
}

func TestInOrder_RemovedShiftsCursor(t *testing.T) {
	s := NewState(InOrder)
	rng := failingRand{t}

	assert.Equal(t, []int{0, 1}, draw(t, &s, rng, unity(t, 3), 2))

	// Deleting index 0 moves the old index 1 to 0; the old index 2 comes next.
	s.Removed(0)
	assert.Equal(t, []int{1, 0}, draw(t, &s, rng, unity(t, 2), 2))

	// Deleting the current index restarts the tally for whatever takes its place.
	s.Removed(0)
	assert.Equal(t, []int{0, 0}, draw(t, &s, rng, unity(t, 1), 2))
}

func TestStrategies_NeverPickZeroWeight(t *testing.T) {
	for _, typ := range []Type{InOrder, Random, Shuffle} {
		t.Run(typ.String(), func(t *testing.T) {
			// --- Arrange ---
			s := NewState(typ)
			rng := NewSeeded(7)
			w := weightsOf(t, 0, 3, 0, 1, 0)

			// --- Act ---
			seen := map[int]int{}
			for _, idx := range draw(t, &s, rng, w, 400) {
				seen[idx]++
			}

			// --- Assert ---
			assert.Zero(t, seen[0])
			assert.Zero(t, seen[2])
			assert.Zero(t, seen[4])
			assert.Positive(t, seen[1])
			assert.Positive(t, seen[3])
		})
	}
}

func TestRandom_Breakpoints(t *testing.T) {
	s := NewState(Random)
	// Total weight 4: slot 0 belongs to index 0, slots 1..3 to index 2.
	rng := NewEntropy([]byte{0, 1, 3, 2})
	assert.Equal(t, []int{0, 2, 2, 2}, draw(t, &s, rng, weightsOf(t, 1, 0, 3), 4))
}

func TestRandom_PropagatesError(t *testing.T) {
	s := NewState(Random)
	_, err := s.Next(NewEntropy(nil), unity(t, 2))
	assert.ErrorIs(t, err, ErrEntropyExhausted)
}

func TestShuffle_EachCycleDrawsEverySlot(t *testing.T) {
	s := NewState(Shuffle)
	rng := NewSeeded(3)
	w := weightsOf(t, 2, 1, 3)

	for cycle := range 5 {
		counts := map[int]int{}
		for _, idx := range draw(t, &s, rng, w, 6) {
			counts[idx]++
		}
		assert.Equal(t, map[int]int{0: 2, 1: 1, 2: 3}, counts, "cycle %d", cycle)
	}
}

func TestShuffle_GrowthJoinsCurrentCycle(t *testing.T) {
	s := NewState(Shuffle)
	rng := NewSeeded(11)

	first := draw(t, &s, rng, unity(t, 2), 1)[0]

	// A third index appears mid-cycle: the rest of the cycle is the unseen old
	// index plus the new one.
	rest := draw(t, &s, rng, unity(t, 3), 2)
	assert.ElementsMatch(t, []int{1 - first, 2}, rest)
}

func TestShuffle_RemovedRenumbersBag(t *testing.T) {
	s := NewState(Shuffle)
	rng := NewSeeded(5)

	draw(t, &s, rng, unity(t, 4), 1)
	s.Removed(1)

	rest := draw(t, &s, rng, unity(t, 3), len(s.shuffle.bag))
	for _, idx := range rest {
		assert.Less(t, idx, 3)
	}
	assert.Equal(t, 3, s.shuffle.prevCount)
}

func TestShuffle_ErrorLeavesBagUntouched(t *testing.T) {
	s := NewState(Shuffle)
	_, err := s.Next(NewEntropy(nil), unity(t, 3))
	assert.ErrorIs(t, err, ErrEntropyExhausted)
	assert.Empty(t, s.shuffle.bag)
}

func TestShuffle_GrowthErrorLeavesBagUntouched(t *testing.T) {
	for _, entropy := range [][]byte{{0}, {1}, {2}} {
		// --- Arrange ---
		// Three slots built, one drawn: indices 1 and 0 are left in this cycle.
		s := NewState(Shuffle)
		s.shuffle = shuffleState{prevCount: 3, bag: []int{1, 0}}

		// --- Act ---
		// Growing to six children needs more draws than the entropy holds.
		_, err := s.Next(NewEntropy(entropy), unity(t, 6))

		// --- Assert ---
		require.ErrorIs(t, err, ErrEntropyExhausted)
		assert.Equal(t, []int{1, 0}, s.shuffle.bag, "entropy %v", entropy)
		assert.Equal(t, 3, s.shuffle.prevCount)

		rest := draw(t, &s, NewSeeded(7), unity(t, 6), 5)
		assert.ElementsMatch(t, []int{0, 1, 3, 4, 5}, rest, "the cycle still holds every slot once")
	}
}

func TestState_ResetKeepsType(t *testing.T) {
	s := NewState(Shuffle)
	draw(t, &s, NewSeeded(1), unity(t, 4), 2)
	s.Reset()
	assert.Equal(t, Shuffle, s.Type())
	assert.Empty(t, s.shuffle.bag)
}
