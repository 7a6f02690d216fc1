package network

import (
	"context"
	"slices"

	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/specialistvlad/spigot/internal/ctxlog"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

// Network is the scheduling tree: buckets of items under weighted joints,
// with the order mirror kept in lock-step.
type Network[T, U any] struct {
	root         childvec.ChildVec[child[T, U]]
	order        *order.Tree
	nextBucketID BucketID
	needsFill    map[BucketID]struct{}
	// generation changes whenever the order mirror changes shape or state
	// outside of a finalize, invalidating outstanding peeks.
	generation uint64
	observer   Observer
}

// Option configures a Network.
type Option func(*settings)

type settings struct {
	observer Observer
}

// WithObserver reports commands, peeks and finalizes to o.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// New returns an empty network: a spigot with no children and in-order
// selection.
func New[T, U any](opts ...Option) *Network[T, U] {
	s := settings{observer: noopObserver{}}
	for _, opt := range opts {
		opt(&s)
	}
	return &Network[T, U]{
		order:     order.NewTree(),
		needsFill: make(map[BucketID]struct{}),
		observer:  s.observer,
	}
}

// Modify applies one structural command. On error the network is unchanged.
func (n *Network[T, U]) Modify(ctx context.Context, cmd Command[T, U]) error {
	logger := ctxlog.FromContext(ctx)

	var err error
	switch cmd.Kind {
	case CmdAddBucket:
		err = n.addChild(cmd.Path, child[T, U]{bucket: &bucket[T, U]{}})
	case CmdAddJoint:
		err = n.addChild(cmd.Path, child[T, U]{joint: &joint[T, U]{}})
	case CmdDeleteEmpty:
		err = n.deleteEmpty(cmd.Path)
	case CmdFillBucket:
		err = n.fillBucket(cmd.Path, cmd.Items)
	case CmdClearBucket:
		err = n.clearBucket(cmd.Path)
	case CmdSetFilters:
		err = n.setFilters(cmd.Path, cmd.Filters)
	case CmdSetWeight:
		err = n.setWeight(cmd.Path, cmd.Weight)
	case CmdSetOrderType:
		err = n.setOrderType(cmd.Path, cmd.Order)
	default:
		panic("network: unknown command kind " + cmd.Kind.String())
	}

	n.observer.CommandApplied(cmd.Kind, err)
	if err != nil {
		logger.Debug("Network command rejected.", "cmd", cmd.Kind.String(), "path", cmd.Path.String(), "error", err)
		return err
	}
	logger.Debug("Network command applied.", "cmd", cmd.Kind.String(), "path", cmd.Path.String(), "items", len(cmd.Items))
	return nil
}

// lookup resolves a non-root path to its node.
func (n *Network[T, U]) lookup(p path.Path) (*child[T, U], error) {
	kids := &n.root
	for depth, idx := range p {
		if idx >= kids.Len() {
			return nil, &UnknownPathError{Path: p.Clone()}
		}
		node := kids.At(idx)
		if depth == len(p)-1 {
			return node, nil
		}
		if node.joint == nil {
			return nil, &UnknownPathError{Path: p.Clone()}
		}
		kids = &node.joint.children
	}
	panic("network: lookup called with the root path")
}

// childrenOf resolves the child list of the spigot or of a joint.
func (n *Network[T, U]) childrenOf(p path.Path) (*childvec.ChildVec[child[T, U]], error) {
	if p.IsRoot() {
		return &n.root, nil
	}
	node, err := n.lookup(p)
	if err != nil {
		return nil, err
	}
	if node.joint == nil {
		return nil, kindErrorAt(ErrAddToBucket, p)
	}
	return &node.joint.children, nil
}

func (n *Network[T, U]) addChild(parent path.Path, c child[T, U]) error {
	kids, err := n.childrenOf(parent)
	if err != nil {
		return err
	}

	if idx := n.order.Add(parent); idx != kids.Len() {
		panic("network: order mirror out of step with item tree")
	}
	if c.bucket != nil {
		c.bucket.id = n.nextBucketID
		n.nextBucketID++
		n.needsFill[c.bucket.id] = struct{}{}
	}
	kids.Push(c)
	n.generation++
	return nil
}

func (n *Network[T, U]) deleteEmpty(p path.Path) error {
	last, parent, ok := p.SplitLast()
	if !ok {
		return ErrDeleteRoot
	}
	node, err := n.lookup(p)
	if err != nil {
		return err
	}

	switch {
	case node.bucket != nil && len(node.bucket.items) > 0:
		return &NonEmptyError{Path: p.Clone(), Kind: KindBucket, Items: len(node.bucket.items)}
	case node.joint != nil && !node.joint.children.IsEmpty():
		blocking := make([]path.Path, node.joint.children.Len())
		for i := range blocking {
			blocking[i] = p.Child(i)
		}
		return &NonEmptyError{Path: p.Clone(), Kind: KindJoint, Children: blocking}
	}

	if node.bucket != nil {
		delete(n.needsFill, node.bucket.id)
	}
	kids, err := n.childrenOf(parent)
	if err != nil {
		panic("network: parent of a resolved node must be a joint")
	}
	n.order.Remove(p)
	kids.Remove(last)
	n.generation++
	return nil
}

func (n *Network[T, U]) bucketAt(p path.Path) (*bucket[T, U], error) {
	if p.IsRoot() {
		return nil, kindErrorAt(ErrFillJoint, p)
	}
	node, err := n.lookup(p)
	if err != nil {
		return nil, err
	}
	if node.bucket == nil {
		return nil, kindErrorAt(ErrFillJoint, p)
	}
	return node.bucket, nil
}

func (n *Network[T, U]) fillBucket(p path.Path, items []T) error {
	b, err := n.bucketAt(p)
	if err != nil {
		return err
	}
	b.items = append(b.items, items...)
	delete(n.needsFill, b.id)
	return nil
}

func (n *Network[T, U]) clearBucket(p path.Path) error {
	b, err := n.bucketAt(p)
	if err != nil {
		return err
	}
	b.items = nil
	n.order.Reset(p)
	n.generation++
	return nil
}

func (n *Network[T, U]) setFilters(p path.Path, filters []U) error {
	if p.IsRoot() {
		return ErrFilterRoot
	}
	node, err := n.lookup(p)
	if err != nil {
		return err
	}
	filters = slices.Clone(filters)
	if len(filters) == 0 {
		filters = nil
	}
	if node.bucket != nil {
		node.bucket.filters = filters
		n.needsFill[node.bucket.id] = struct{}{}
		return nil
	}
	node.joint.filters = filters
	walkChildren(&node.joint.children, p.Clone(), func(_ path.Path, c *child[T, U]) bool {
		if c.bucket != nil {
			n.needsFill[c.bucket.id] = struct{}{}
		}
		return true
	})
	return nil
}

func (n *Network[T, U]) setWeight(p path.Path, weight uint32) error {
	last, parent, ok := p.SplitLast()
	if !ok {
		return ErrWeightRoot
	}
	if _, err := n.lookup(p); err != nil {
		return err
	}
	kids, err := n.childrenOf(parent)
	if err != nil {
		panic("network: parent of a resolved node must be a joint")
	}
	kids.SetWeight(last, weight)
	n.order.Invalidate(parent)
	n.generation++
	return nil
}

func (n *Network[T, U]) setOrderType(p path.Path, typ order.Type) error {
	if !p.IsRoot() {
		if _, err := n.lookup(p); err != nil {
			return err
		}
	}
	n.order.SetType(p, typ)
	n.generation++
	return nil
}

// walkChildren visits the subtree below kids depth first, in child order.
// base is the path of the node owning kids and doubles as a scratch buffer, so
// visit must clone the path it is given before keeping it. Returning false
// from visit skips that node's descendants.
func walkChildren[T, U any](kids *childvec.ChildVec[child[T, U]], base path.Path, visit func(path.Path, *child[T, U]) bool) {
	for i := range kids.Len() {
		base.Push(i)
		c := kids.At(i)
		if visit(base, c) && c.joint != nil {
			walkChildren(&c.joint.children, base, visit)
		}
		base.Pop()
	}
}
