package childvec

import "fmt"

// ChildVec is an ordered list of children with optional per-child weights.
//
// Invariant: weights is either empty (every child weighs 1) or has exactly one
// entry per child.
type ChildVec[T any] struct {
	children []T
	weights  []uint32
}

// From wraps existing children, all with unity weight.
func From[T any](children ...T) ChildVec[T] {
	return ChildVec[T]{children: children}
}

// Len returns the number of children.
func (c *ChildVec[T]) Len() int {
	return len(c.children)
}

// IsEmpty reports whether there are no children.
func (c *ChildVec[T]) IsEmpty() bool {
	return len(c.children) == 0
}

// Children returns the children in order. The slice must not be retained
// across mutations.
func (c *ChildVec[T]) Children() []T {
	return c.children
}

// At returns a pointer to the child at index, panicking when out of range.
func (c *ChildVec[T]) At(index int) *T {
	c.mustIndex(index)
	return &c.children[index]
}

// Push appends a child with weight 1.
func (c *ChildVec[T]) Push(child T) {
	if len(c.weights) > 0 {
		c.weights = append(c.weights, 1)
	}
	c.children = append(c.children, child)
}

// Remove deletes the child at index, returning its weight and value.
func (c *ChildVec[T]) Remove(index int) (uint32, T) {
	c.mustIndex(index)
	child := c.children[index]
	c.children = append(c.children[:index], c.children[index+1:]...)

	weight := uint32(1)
	if len(c.weights) > 0 {
		weight = c.weights[index]
		c.weights = append(c.weights[:index], c.weights[index+1:]...)
	}
	return weight, child
}

// SetWeight overwrites one child's weight, materialising explicit weights on
// first use.
func (c *ChildVec[T]) SetWeight(index int, value uint32) {
	c.mustIndex(index)
	if len(c.weights) == 0 {
		c.weights = make([]uint32, len(c.children))
		for i := range c.weights {
			c.weights[i] = 1
		}
	}
	c.weights[index] = value
}

// Weight returns the weight of one child.
func (c *ChildVec[T]) Weight(index int) uint32 {
	c.mustIndex(index)
	if len(c.weights) == 0 {
		return 1
	}
	return c.weights[index]
}

// HasExplicitWeights reports whether weights were materialised by SetWeight.
func (c *ChildVec[T]) HasExplicitWeights() bool {
	return len(c.weights) > 0
}

// Weights returns the selection view of the weights. It reports false when
// there is nothing to select: no children, or every weight is zero.
func (c *ChildVec[T]) Weights() (Weights, bool) {
	if len(c.weights) == 0 {
		return Unity(len(c.children))
	}
	return Explicit(c.weights)
}

func (c *ChildVec[T]) mustIndex(index int) {
	if index < 0 || index >= len(c.children) {
		panic(fmt.Sprintf("childvec: index %d out of range [0, %d)", index, len(c.children)))
	}
}
