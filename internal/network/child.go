package network

import "github.com/specialistvlad/spigot/internal/childvec"

// BucketID identifies a bucket for its whole lifetime, independent of its path.
// IDs are assigned in creation order and never reused by one network.
type BucketID uint64

// NodeKind distinguishes buckets from joints.
type NodeKind int

const (
	KindBucket NodeKind = iota
	KindJoint
)

func (k NodeKind) String() string {
	if k == KindBucket {
		return "bucket"
	}
	return "joint"
}

// child is one node of the item tree. Exactly one of bucket and joint is set.
type child[T, U any] struct {
	bucket *bucket[T, U]
	joint  *joint[T, U]
}

type bucket[T, U any] struct {
	id      BucketID
	items   []T
	filters []U
}

type joint[T, U any] struct {
	children childvec.ChildVec[child[T, U]]
	filters  []U
}

func (c *child[T, U]) kind() NodeKind {
	if c.bucket != nil {
		return KindBucket
	}
	return KindJoint
}

func (c *child[T, U]) filters() []U {
	if c.bucket != nil {
		return c.bucket.filters
	}
	return c.joint.filters
}
