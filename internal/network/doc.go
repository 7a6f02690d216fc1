// Package network implements the spigot: a tree of weighted joints whose
// leaves are buckets of queued items, drained one draw at a time.
//
// # Structure
//
// The root (the "spigot") holds a weighted list of children. Each child is
// either a Bucket, holding a queue of items and a set of filter tags, or a
// Joint, holding its own weighted list of children and filter tags. Nodes are
// addressed by path.Path values such as ".0.2".
//
// Next to the item tree, the network keeps an order mirror (order.Tree) with
// one strategy state per node. Every structural command updates both trees in
// the same call, so their shapes never diverge.
//
// # Drawing Items
//
// Drawing is a two phase protocol:
//
//  1. Peek clones the order mirror (constant time, copy-on-write) and draws up
//     to N items against the clone. The committed network is not modified.
//  2. FinalizePeeked commits the clone, advancing round-robin cursors and
//     shuffle bags past the peeked items. Dropping a peek instead is free.
//
// While peeking, an exhaustion tracker remembers which children turned out to
// be empty so later draws of the same peek never descend into them again. The
// reported effort counts node and item lookups and grows with the number of
// draws plus the number of dead branches, not with draws times depth.
//
// # Persistence
//
// A network is never serialised directly. Commands returns a replay log of
// structural commands that rebuilds an equivalent network through
// FromCommands; package replay stores that log as HCL or YAML.
//
// # Concurrency
//
// A Network is not safe for concurrent mutation. Peek only reads committed
// state, so several peeks may run together as long as no command or finalize
// runs at the same time.
package network
