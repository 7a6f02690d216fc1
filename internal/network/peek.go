package network

import (
	"context"

	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/order"
)

// Peeked is the result of Network.Peek: the upcoming items, the bucket each
// came from, and the tentative order state that produced them.
type Peeked[T any] struct {
	items      []T
	sources    []BucketID
	tree       *order.Tree
	effort     uint64
	generation uint64
}

// Items returns the peeked items in draw order.
func (p *Peeked[T]) Items() []T {
	return p.items
}

// Sources returns the ID of the bucket each item was drawn from.
func (p *Peeked[T]) Sources() []BucketID {
	return p.sources
}

// Effort returns the number of node and item lookups the peek performed.
func (p *Peeked[T]) Effort() uint64 {
	return p.effort
}

// Cancel discards the tentative order state and returns the items. The
// network is unaffected, exactly as if the peek was dropped.
func (p *Peeked[T]) Cancel() []T {
	p.tree = nil
	return p.items
}

// Accept returns the token that commits this peek through FinalizePeeked.
func (p *Peeked[T]) Accept() PeekAccepted {
	accepted := PeekAccepted{tree: p.tree, generation: p.generation, count: len(p.items)}
	p.tree = nil
	return accepted
}

// PeekAccepted authorises Network.FinalizePeeked to commit a peek's order
// state. The zero value is rejected.
type PeekAccepted struct {
	tree       *order.Tree
	generation uint64
	count      int
}

// Peek draws up to count items without changing the network. It stops early
// once every bucket is known to be empty. The only error source is rng, whose
// errors are returned unchanged.
func (n *Network[T, U]) Peek(ctx context.Context, rng order.Rand, count int) (*Peeked[T], error) {
	tree := n.order.Clone()
	root := tree.MutableRoot()
	tracker := newExhaustion(&n.root)

	result := &Peeked[T]{generation: n.generation}
	for len(result.items) < count {
		item, found, effort, err := peekLevel(rng, &n.root, root, tracker)
		result.effort += effort
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		result.items = append(result.items, item.value)
		result.sources = append(result.sources, item.bucket)
	}
	result.tree = tree

	n.observer.Peeked(count, len(result.items), result.effort)
	ctxlog.FromContext(ctx).Debug("Network peeked.", "requested", count, "items", len(result.items), "effort", result.effort)
	return result, nil
}

// FinalizePeeked commits an accepted peek, advancing the order state past the
// peeked items. It fails with ErrStalePeek if the network changed shape, any
// order type or weight changed, or another peek was finalized since the peek.
func (n *Network[T, U]) FinalizePeeked(ctx context.Context, accepted PeekAccepted) error {
	logger := ctxlog.FromContext(ctx)
	if accepted.tree == nil || accepted.generation != n.generation {
		n.observer.Finalized(ErrStalePeek)
		logger.Debug("Network finalize rejected.", "peek_generation", accepted.generation, "generation", n.generation)
		return ErrStalePeek
	}
	n.order = accepted.tree
	n.generation++
	n.observer.Finalized(nil)
	logger.Debug("Network finalized peek.", "items", accepted.count)
	return nil
}

type drawn[T any] struct {
	value  T
	bucket BucketID
}

// peekLevel draws one item from the subtree below kids. It reports found ==
// false once every child of this level is known to be empty.
func peekLevel[T, U any](rng order.Rand, kids *childvec.ChildVec[child[T, U]], node *order.Node, tracker *exhaustion) (drawn[T], bool, uint64, error) {
	var effort uint64
	for !tracker.exhausted() {
		weights, ok := kids.Weights()
		if !ok {
			panic("network: live children without selectable weights")
		}
		idx, err := node.Next(rng, weights)
		if err != nil {
			return drawn[T]{}, false, effort, err
		}
		if tracker.isDead(idx) {
			continue
		}

		// child lookup
		effort++

		c := kids.At(idx)
		switch {
		case c.bucket != nil && len(c.bucket.items) > 0:
			items, _ := childvec.Unity(len(c.bucket.items))
			pick, err := node.MutableChild(idx).Next(rng, items)
			if err != nil {
				return drawn[T]{}, false, effort, err
			}
			// item lookup
			effort++
			return drawn[T]{value: c.bucket.items[pick], bucket: c.bucket.id}, true, effort, nil

		case c.joint != nil && !c.joint.children.IsEmpty():
			sub := childTracker(tracker, idx, &c.joint.children)
			item, found, childEffort, err := peekLevel(rng, &c.joint.children, node.MutableChild(idx), sub)
			effort += childEffort
			if err != nil {
				return drawn[T]{}, false, effort, err
			}
			if found {
				return item, true, effort, nil
			}
		}
		tracker.markDead(idx)
	}
	return drawn[T]{}, false, effort, nil
}

// exhaustion records, for one peek, which children of a level are known to
// yield nothing. Zero-weight children start out dead since they can never be
// chosen. Child trackers are created on first descent.
type exhaustion struct {
	dead     []bool
	live     int
	children []*exhaustion
}

func newExhaustion[C any](kids *childvec.ChildVec[C]) *exhaustion {
	e := &exhaustion{
		dead:     make([]bool, kids.Len()),
		children: make([]*exhaustion, kids.Len()),
	}
	for i := range e.dead {
		if kids.Weight(i) == 0 {
			e.dead[i] = true
		} else {
			e.live++
		}
	}
	return e
}

func (e *exhaustion) exhausted() bool {
	return e.live == 0
}

func (e *exhaustion) isDead(idx int) bool {
	return e.dead[idx]
}

func (e *exhaustion) markDead(idx int) {
	if e.dead[idx] {
		return
	}
	e.dead[idx] = true
	e.children[idx] = nil
	e.live--
}

func childTracker[C any](e *exhaustion, idx int, kids *childvec.ChildVec[C]) *exhaustion {
	if e.children[idx] == nil {
		e.children[idx] = newExhaustion(kids)
	}
	return e.children[idx]
}
