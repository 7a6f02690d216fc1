package network

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

// Commands returns a replay log that rebuilds this network's structure,
// weights, order types, filters, queued items and the set of buckets needing a
// fill when applied to an empty network. Order cursors and bucket IDs are not
// part of the log.
func (n *Network[T, U]) Commands() []Command[T, U] {
	var cmds []Command[T, U]
	if typ := n.order.Root().Type(); typ != order.InOrder {
		cmds = append(cmds, SetOrderType[T, U](path.Root(), typ))
	}

	var emit func(kids *childvec.ChildVec[child[T, U]], parent path.Path)
	emit = func(kids *childvec.ChildVec[child[T, U]], parent path.Path) {
		for i := range kids.Len() {
			c := kids.At(i)
			p := parent.Child(i)
			if c.bucket != nil {
				cmds = append(cmds, AddBucket[T, U](parent.Clone()))
			} else {
				cmds = append(cmds, AddJoint[T, U](parent.Clone()))
			}
			if typ := n.order.At(p).Type(); typ != order.InOrder {
				cmds = append(cmds, SetOrderType[T, U](p, typ))
			}
			if w := kids.Weight(i); w != 1 {
				cmds = append(cmds, SetWeight[T, U](p, w))
			}
			if c.bucket != nil {
				cmds = append(cmds, n.bucketContents(p, c.bucket)...)
				continue
			}
			if f := c.filters(); len(f) > 0 {
				cmds = append(cmds, SetFilters[T, U](p, slices.Clone(f)...))
			}
			emit(&c.joint.children, p)
		}
	}
	emit(&n.root, path.Root())
	return cmds
}

// bucketContents emits the filters and items of b so that replaying them after
// add-bucket leaves b needing a fill exactly when it does now. add-bucket and
// set-filters mark a bucket as needing a fill; fill-bucket, even with no
// items, clears the mark.
func (n *Network[T, U]) bucketContents(p path.Path, b *bucket[T, U]) []Command[T, U] {
	var cmds []Command[T, U]
	filters := slices.Clone(b.filters)
	items := slices.Clone(b.items)
	if _, needsFill := n.needsFill[b.id]; needsFill {
		if len(items) > 0 {
			cmds = append(cmds, FillBucket[T, U](p, items...), SetFilters[T, U](p, filters...))
		} else if len(filters) > 0 {
			cmds = append(cmds, SetFilters[T, U](p, filters...))
		}
		return cmds
	}
	if len(filters) > 0 {
		cmds = append(cmds, SetFilters[T, U](p, filters...))
	}
	return append(cmds, FillBucket[T, U](p, items...))
}

// FromCommands builds a network by applying cmds in order to an empty one.
// The replayed commands are not reported to the observer given in opts; it
// only sees what happens to the network afterwards.
func FromCommands[T, U any](ctx context.Context, cmds []Command[T, U], opts ...Option) (*Network[T, U], error) {
	n := New[T, U](opts...)
	observer := n.observer
	n.observer = noopObserver{}
	for i, cmd := range cmds {
		if err := n.Modify(ctx, cmd); err != nil {
			return nil, fmt.Errorf("replay command %d (%s): %w", i, cmd, err)
		}
	}
	n.observer = observer
	return n, nil
}
