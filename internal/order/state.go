package order

import (
	"slices"

	"github.com/specialistvlad/spigot/internal/childvec"
)

// State is the ordering state of one node: the active strategy plus whatever
// cursor it keeps. Only the fields of the active strategy are meaningful.
type State struct {
	typ     Type
	inOrder inOrderState
	shuffle shuffleState
}

// NewState returns a fresh state for the given strategy.
func NewState(t Type) State {
	return State{typ: t}
}

// Type returns the active strategy.
func (s *State) Type() Type {
	return s.typ
}

// Next returns the next index to try among the given weights and advances the
// cursor. A zero-weight index is never returned. Errors come only from rng.
func (s *State) Next(rng Rand, weights childvec.Weights) (int, error) {
	switch s.typ {
	case InOrder:
		return s.inOrder.next(weights), nil
	case Random:
		return nextRandom(rng, weights)
	case Shuffle:
		return s.shuffle.next(rng, weights)
	}
	panic("order: invalid strategy " + s.typ.String())
}

// Invalidate tells the strategy that the weights changed underneath it.
//
// In-order keeps its position and tally; the next call re-validates them
// against the new weights, moving on when the current index became inactive or
// its tally already reaches the new weight. Shuffle drops its bag so the next
// cycle is drawn from the new weights.
func (s *State) Invalidate() {
	s.shuffle = shuffleState{}
}

// Removed tells the strategy that the child at index was deleted and later
// siblings shifted down by one.
func (s *State) Removed(index int) {
	s.inOrder.removed(index)
	s.shuffle.removed(index)
}

// Reset discards all cursor state, keeping the strategy.
func (s *State) Reset() {
	*s = NewState(s.typ)
}

func (s State) clone() State {
	s.shuffle.bag = slices.Clone(s.shuffle.bag)
	return s
}

type inOrderState struct {
	cursor int
	count  uint64
}

func (o *inOrderState) next(weights childvec.Weights) int {
	last := weights.Len() - 1
	// Weights holds at least one non-zero entry, so this terminates within two
	// passes over the indices.
	for {
		if o.cursor > last {
			o.cursor = 0
			o.count = 0
		}
		current := o.cursor
		newCount := o.count + 1
		goal := uint64(weights.Get(current))
		if o.count >= goal {
			o.cursor++
			o.count = 0
		} else {
			o.count = newCount
		}
		if newCount <= goal {
			return current
		}
	}
}

func (o *inOrderState) removed(index int) {
	switch {
	case index < o.cursor:
		o.cursor--
	case index == o.cursor:
		o.count = 0
	}
}

func nextRandom(rng Rand, weights childvec.Weights) (int, error) {
	if weights.IsUnity() {
		return rng.IntN(weights.Len())
	}
	chosen, err := rng.IntN(int(weights.Total()))
	if err != nil {
		return 0, err
	}
	var upper uint64
	for i := 0; i < weights.Len(); i++ {
		upper += uint64(weights.Get(i))
		if uint64(chosen) < upper {
			return i, nil
		}
	}
	panic("order: random draw beyond total weight")
}

// shuffleState is a bag of indices, each repeated by its weight, consumed
// from the back. prevCount is the number of indices the bag was built for;
// indices appended later (e.g. new items in a bucket) are shuffled into the
// remaining bag instead of waiting for the next cycle.
type shuffleState struct {
	prevCount int
	bag       []int
}

func (sh *shuffleState) next(rng Rand, weights childvec.Weights) (int, error) {
	count := weights.Len()
	if count < sh.prevCount {
		sh.bag = slices.DeleteFunc(sh.bag, func(v int) bool { return v >= count })
	}
	if len(sh.bag) == 0 {
		sh.prevCount = 0
	}
	if count > sh.prevCount {
		grown, err := sh.grow(rng, weights, count)
		if err != nil {
			return 0, err
		}
		sh.bag = grown
	}
	sh.prevCount = count

	last := len(sh.bag) - 1
	popped := sh.bag[last]
	sh.bag = sh.bag[:last]
	return popped, nil
}

// grow returns a copy of the bag with the slots of indices [prevCount, count)
// shuffled in. The bag itself is left alone so a failed draw changes nothing.
func (sh *shuffleState) grow(rng Rand, weights childvec.Weights, count int) ([]int, error) {
	start := len(sh.bag)
	grown := slices.Clone(sh.bag)
	for i := sh.prevCount; i < count; i++ {
		for range weights.Get(i) {
			grown = append(grown, i)
		}
	}
	// Inside-out Fisher-Yates over the appended slots.
	for from := max(start, 1); from < len(grown); from++ {
		dest, err := rng.IntN(from + 1)
		if err != nil {
			return nil, err
		}
		grown[from], grown[dest] = grown[dest], grown[from]
	}
	return grown, nil
}

func (sh *shuffleState) removed(index int) {
	if index >= sh.prevCount {
		return
	}
	sh.bag = slices.DeleteFunc(sh.bag, func(v int) bool { return v == index })
	for i, v := range sh.bag {
		if v > index {
			sh.bag[i] = v - 1
		}
	}
	sh.prevCount--
}
