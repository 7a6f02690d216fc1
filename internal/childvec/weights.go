package childvec

import "fmt"

// Weights is a read-only view of sibling weights that always has at least one
// selectable (non-zero) entry. Equal weights are represented without a slice.
type Weights struct {
	unityLen int
	explicit []uint32
}

// Unity returns a view of n children weighing 1 each. It reports false when n
// is zero.
func Unity(n int) (Weights, bool) {
	if n <= 0 {
		return Weights{}, false
	}
	return Weights{unityLen: n}, true
}

// Explicit returns a view over the given weights. It reports false when the
// slice is empty or all zero.
func Explicit(weights []uint32) (Weights, bool) {
	for _, w := range weights {
		if w != 0 {
			return Weights{explicit: weights}, true
		}
	}
	return Weights{}, false
}

// Len returns the number of entries, including zero-weight ones.
func (w Weights) Len() int {
	if w.explicit != nil {
		return len(w.explicit)
	}
	return w.unityLen
}

// IsUnity reports whether every entry weighs 1 implicitly.
func (w Weights) IsUnity() bool {
	return w.explicit == nil
}

// Get returns the weight at index, panicking when out of range.
func (w Weights) Get(index int) uint32 {
	if index < 0 || index >= w.Len() {
		panic(fmt.Sprintf("childvec: weight index %d out of range [0, %d)", index, w.Len()))
	}
	if w.explicit != nil {
		return w.explicit[index]
	}
	return 1
}

// Total returns the sum of all weights.
func (w Weights) Total() uint64 {
	if w.explicit == nil {
		return uint64(w.unityLen)
	}
	var total uint64
	for _, v := range w.explicit {
		total += uint64(v)
	}
	return total
}
