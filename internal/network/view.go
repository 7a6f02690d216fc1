package network

import (
	"github.com/specialistvlad/spigot/internal/childvec"
	"github.com/specialistvlad/spigot/internal/order"
	"github.com/specialistvlad/spigot/internal/path"
)

// NoDepthLimit makes View descend to the leaves.
const NoDepthLimit = -1

// NodeDetails describes one node for read-only display.
type NodeDetails[U any] struct {
	Path path.Path
	Kind NodeKind
	// Count is the number of queued items for a bucket, or children for a joint
	// (and for the spigot).
	Count int
	// Weight is the node's weight in its parent; the spigot reports 1.
	Weight uint32
	// Active is false when the node or any ancestor has weight 0.
	Active  bool
	Order   order.Type
	Filters []U
}

// View lists the node at base followed by its descendants, depth first, down
// to maxDepth levels below base (NoDepthLimit for all). The spigot is reported
// as a joint.
func (n *Network[T, U]) View(base path.Path, maxDepth int) ([]NodeDetails[U], error) {
	var (
		kids   *childvec.ChildVec[child[T, U]]
		active = true
		out    []NodeDetails[U]
	)
	if base.IsRoot() {
		kids = &n.root
		out = append(out, NodeDetails[U]{
			Path:   path.Root(),
			Kind:   KindJoint,
			Count:  n.root.Len(),
			Weight: 1,
			Active: true,
			Order:  n.order.Root().Type(),
		})
	} else {
		// Walk down to compute the base node's active flag.
		cur := &n.root
		var node *child[T, U]
		for depth, idx := range base {
			if idx >= cur.Len() {
				return nil, &UnknownPathError{Path: base.Clone()}
			}
			active = active && cur.Weight(idx) != 0
			node = cur.At(idx)
			if depth < len(base)-1 {
				if node.joint == nil {
					return nil, &UnknownPathError{Path: base.Clone()}
				}
				cur = &node.joint.children
			}
		}
		last, _, _ := base.SplitLast()
		out = append(out, n.details(base.Clone(), node, cur.Weight(last), active))
		if node.joint == nil {
			return out, nil
		}
		kids = &node.joint.children
	}

	if maxDepth == 0 {
		return out, nil
	}
	n.appendDetails(&out, kids, base.Clone(), active, maxDepth)
	return out, nil
}

func (n *Network[T, U]) appendDetails(out *[]NodeDetails[U], kids *childvec.ChildVec[child[T, U]], base path.Path, active bool, depthLeft int) {
	for i := range kids.Len() {
		p := base.Child(i)
		c := kids.At(i)
		weight := kids.Weight(i)
		childActive := active && weight != 0
		*out = append(*out, n.details(p, c, weight, childActive))
		if c.joint != nil && depthLeft != 1 {
			n.appendDetails(out, &c.joint.children, p, childActive, depthLeft-1)
		}
	}
}

func (n *Network[T, U]) details(p path.Path, c *child[T, U], weight uint32, active bool) NodeDetails[U] {
	d := NodeDetails[U]{
		Path:    p,
		Kind:    c.kind(),
		Weight:  weight,
		Active:  active,
		Order:   n.order.At(p).Type(),
		Filters: c.filters(),
	}
	if c.bucket != nil {
		d.Count = len(c.bucket.items)
	} else {
		d.Count = c.joint.children.Len()
	}
	return d
}

// Filters returns the non-empty filter sets on the way from the spigot down
// to p, outermost first. The spigot itself has no filters.
func (n *Network[T, U]) Filters(p path.Path) ([][]U, error) {
	var groups [][]U
	kids := &n.root
	for depth, idx := range p {
		if idx >= kids.Len() {
			return nil, &UnknownPathError{Path: p.Clone()}
		}
		c := kids.At(idx)
		if f := c.filters(); len(f) > 0 {
			groups = append(groups, f)
		}
		if depth == len(p)-1 {
			break
		}
		if c.joint == nil {
			return nil, &UnknownPathError{Path: p.Clone()}
		}
		kids = &c.joint.children
	}
	return groups, nil
}

// BucketsNeedingFill returns, in path order, the buckets that were created or
// had their filters (or an ancestor's filters) changed since they were last
// filled.
func (n *Network[T, U]) BucketsNeedingFill() []path.Path {
	var paths []path.Path
	if len(n.needsFill) == 0 {
		return paths
	}
	walkChildren(&n.root, path.Root(), func(p path.Path, c *child[T, U]) bool {
		if c.bucket != nil {
			if _, ok := n.needsFill[c.bucket.id]; ok {
				paths = append(paths, p.Clone())
			}
		}
		return true
	})
	return paths
}

// BucketID returns the ID of the bucket at p.
func (n *Network[T, U]) BucketID(p path.Path) (BucketID, error) {
	b, err := n.bucketAt(p)
	if err != nil {
		return 0, err
	}
	return b.id, nil
}
