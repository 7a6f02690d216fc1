// Package childvec provides the weighted, ordered child list used by every
// branching node of a spigot network.
//
// Children are unity-weighted until the first SetWeight call, at which point
// an explicit weight per child is materialised. A weight of zero keeps the
// child in place but makes it ineligible for selection.
package childvec
