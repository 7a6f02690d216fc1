// internal/path/doc.go

/*
Package path provides the structural address of a node in a spigot network.

A path is the sequence of child indices walked from the root (the spigot) to
reach a node. Its canonical text form starts with the delimiter and separates
each index with it, e.g. `.`, `.0`, `.1.2.3`. The root is the empty path and
renders as a lone `.`.

Paths carry no identity besides their indices, so removing a sibling shifts
every later sibling down by one. ModifyForRemoved applies that shift to a path
held outside the network.
*/
package path
