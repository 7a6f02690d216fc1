// internal/path/removed.go
package path

// ModifyForRemoved adjusts p as if the node at removed had just been deleted
// from its parent's children. It reports whether p changed.
//
// A later sibling of removed (or a descendant of one) shifts down by one at
// the depth where removed ends. Paths on other branches, earlier siblings and
// ancestors of removed are unchanged. If p is removed or lies beneath it,
// ErrRemovedSelf is returned and p is left untouched.
func (p *Path) ModifyForRemoved(removed Path) (bool, error) {
	last, parent, ok := removed.SplitLast()
	if !ok {
		// every node descends from the root
		return false, ErrRemovedSelf
	}
	depth := len(parent)
	target := *p
	if len(target) <= depth || !target.HasPrefix(parent) {
		return false, nil
	}
	switch elem := target[depth]; {
	case elem == last:
		return false, ErrRemovedSelf
	case elem > last:
		target[depth]--
		return true, nil
	default:
		return false, nil
	}
}
