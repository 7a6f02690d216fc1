// Package order holds the per-node ordering strategies of a spigot network and
// the mirror tree that stores their state.
//
// Each node picks its next child (or, for buckets, its next item) with one of
// three strategies: weighted round robin, weighted random, or a shuffled bag of
// weighted slots. The strategy state lives in a Tree shaped exactly like the
// item tree. Trees are copy-on-write: Clone is constant time, and a clone only
// copies the nodes it actually advances. This is what makes a speculative peek
// cheap.
package order
