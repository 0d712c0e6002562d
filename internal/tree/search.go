package tree

// Find returns the first node in pre-order matching fn.
func Find[T Node[T]](nodes []T, fn func(T) bool) (T, bool) {
	var found T
	ok := ForEachUntil(nodes, func(node T) bool {
		if fn(node) {
			found = node
			return true
		}
		return false
	})
	return found, ok
}

// FindAll returns every node in pre-order matching fn.
func FindAll[T Node[T]](nodes []T, fn func(T) bool) []T {
	matches := make([]T, 0)
	ForEachUntil(nodes, func(node T) bool {
		if fn(node) {
			matches = append(matches, node)
		}
		return false
	})
	return matches
}

// FindPath returns the chain of nodes from a root down to the first node
// matching fn, or nil when nothing matches.
func FindPath[T Node[T]](nodes []T, fn func(T) bool) []T {
	for _, node := range nodes {
		if fn(node) {
			return []T{node}
		}
		if sub := FindPath(node.GetChildren(), fn); sub != nil {
			return append([]T{node}, sub...)
		}
	}
	return nil
}

// Flatten lists all nodes in pre-order. Nodes keep their children.
func Flatten[T Node[T]](nodes []T) []T {
	return FindAll(nodes, func(T) bool { return true })
}

// FromList assembles a forest from flat rows linked by id and parent id.
// Rows whose parent id is unknown become roots; sibling order follows the
// input order. Rows taking part in a parent cycle are dropped.
func FromList[T Node[T], K comparable](list []T, id func(T) K, parentID func(T) K) []T {
	known := make(map[K]bool, len(list))
	for _, item := range list {
		known[id(item)] = true
	}

	children := make(map[K][]T, len(list))
	roots := make([]T, 0)
	for _, item := range list {
		pid := parentID(item)
		if known[pid] && pid != id(item) {
			children[pid] = append(children[pid], item)
			continue
		}
		roots = append(roots, item)
	}

	visiting := make(map[K]bool, len(list))
	var build func(items []T) []T
	build = func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, item := range items {
			key := id(item)
			if visiting[key] {
				continue
			}
			visiting[key] = true
			out = append(out, item.WithChildren(build(children[key])))
			visiting[key] = false
		}
		return out
	}

	return build(roots)
}
