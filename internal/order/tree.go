package order

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/specialistvlad/spigot/internal/path"
)

// copyOnWriteContext marks which nodes a Tree may write in place. It has a
// non-zero size so that every allocation has its own address.
type copyOnWriteContext struct {
	_ byte
}

// Node is one entry of the mirror tree: a strategy state plus the mirrors of
// the children, in the same order as the item tree.
type Node struct {
	state    State
	children []*Node
	cow      *copyOnWriteContext
}

// Type returns the node's strategy.
func (n *Node) Type() Type {
	return n.state.typ
}

// Len returns the number of mirrored children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the child mirror at index for reading.
func (n *Node) Child(index int) *Node {
	return n.children[n.mustIndex(index)]
}

// MutableChild returns the child mirror at index, copying it into n's write
// context first if it is shared. n itself must be writable, i.e. obtained from
// Tree.MutableRoot or MutableChild.
func (n *Node) MutableChild(index int) *Node {
	child := n.children[n.mustIndex(index)]
	if child.cow != n.cow {
		child = child.mutableFor(n.cow)
		n.children[index] = child
	}
	return child
}

// Next advances the node's strategy. Only call it on writable nodes.
func (n *Node) Next(rng Rand, weights childvec.Weights) (int, error) {
	return n.state.Next(rng, weights)
}

func (n *Node) mutableFor(cow *copyOnWriteContext) *Node {
	if n.cow == cow {
		return n
	}
	return &Node{
		state:    n.state.clone(),
		children: slices.Clone(n.children),
		cow:      cow,
	}
}

func (n *Node) mustIndex(index int) int {
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("order: mirror child %d out of range [0, %d)", index, len(n.children)))
	}
	return index
}

// Tree is the order mirror of a whole network.
//
// Committed trees are never written in place once a clone may share their
// nodes: every structural helper starts a new write context and path-copies
// the nodes it touches. A clone writes in place only to nodes it copied
// itself, so Clone is constant time and does not modify the receiver.
type Tree struct {
	root *Node
	cow  *copyOnWriteContext
}

// NewTree returns a mirror with an in-order root and no children.
func NewTree() *Tree {
	cow := new(copyOnWriteContext)
	return &Tree{root: &Node{cow: cow}, cow: cow}
}

// Clone returns a tree sharing all nodes with t. Writes to either tree copy
// the touched nodes first.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root, cow: new(copyOnWriteContext)}
}

// Root returns the root for reading.
func (t *Tree) Root() *Node {
	return t.root
}

// MutableRoot returns the root in t's write context.
func (t *Tree) MutableRoot() *Node {
	t.root = t.root.mutableFor(t.cow)
	return t.root
}

// At returns the node at p for reading. It panics when p does not resolve,
// since network paths are validated before reaching the mirror.
func (t *Tree) At(p path.Path) *Node {
	n := t.root
	for _, i := range p {
		n = n.Child(i)
	}
	return n
}

// Add appends a fresh in-order child under parent and returns its index.
func (t *Tree) Add(parent path.Path) int {
	n := t.beginWrite(parent)
	n.children = append(n.children, &Node{cow: t.cow})
	return len(n.children) - 1
}

// Remove deletes the node at p and shifts the parent's cursor accordingly.
func (t *Tree) Remove(p path.Path) {
	last, parent, ok := p.SplitLast()
	if !ok {
		panic("order: cannot remove the mirror root")
	}
	n := t.beginWrite(parent)
	n.mustIndex(last)
	n.children = slices.Delete(n.children, last, last+1)
	n.state.Removed(last)
}

// SetType replaces the strategy at p with a fresh state of type typ.
func (t *Tree) SetType(p path.Path, typ Type) {
	t.beginWrite(p).state = NewState(typ)
}

// Invalidate signals that the weights of the children of p changed.
func (t *Tree) Invalidate(p path.Path) {
	t.beginWrite(p).state.Invalidate()
}

// Reset discards the cursor at p, keeping its strategy.
func (t *Tree) Reset(p path.Path) {
	t.beginWrite(p).state.Reset()
}

func (t *Tree) beginWrite(p path.Path) *Node {
	t.cow = new(copyOnWriteContext)
	n := t.MutableRoot()
	for _, i := range p {
		n = n.MutableChild(i)
	}
	return n
}
