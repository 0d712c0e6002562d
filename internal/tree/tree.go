// Package tree provides generic traversal helpers over children-labelled
// n-ary trees. Every helper works on value nodes and returns fresh slices;
// callers must not rely on aliasing between input and output.
package tree

import "sort"

// Node is implemented by tree node value types.
type Node[T any] interface {
	GetChildren() []T
	WithChildren(children []T) T
}

// Map replaces every node with fn's result, parent before children, and
// recurses into the children of the mapped node.
func Map[T Node[T]](nodes []T, fn func(T) T) []T {
	if nodes == nil {
		return nil
	}

	out := make([]T, 0, len(nodes))
	for _, node := range nodes {
		mapped := fn(node)
		if children := mapped.GetChildren(); children != nil {
			mapped = mapped.WithChildren(Map(children, fn))
		}
		out = append(out, mapped)
	}
	return out
}

// Filter keeps a node when keep reports true for it or when at least one of
// its children survived filtering. Children are filtered first.
func Filter[T Node[T]](nodes []T, keep func(T) bool) []T {
	if nodes == nil {
		return nil
	}

	out := make([]T, 0, len(nodes))
	for _, node := range nodes {
		if children := node.GetChildren(); len(children) > 0 {
			node = node.WithChildren(Filter(children, keep))
		}
		if keep(node) || len(node.GetChildren()) > 0 {
			out = append(out, node)
		}
	}
	return out
}

// ForEachUntil visits nodes in pre-order until fn returns true. It reports
// whether the walk was stopped early.
func ForEachUntil[T Node[T]](nodes []T, fn func(T) bool) bool {
	for _, node := range nodes {
		if fn(node) {
			return true
		}
		if ForEachUntil(node.GetChildren(), fn) {
			return true
		}
	}
	return false
}

// CollectValues returns selector's result for every node in pre-order,
// dropping zero values.
func CollectValues[T Node[T], V comparable](nodes []T, selector func(T) V) []V {
	var zero V
	values := make([]V, 0)
	ForEachUntil(nodes, func(node T) bool {
		if v := selector(node); v != zero {
			values = append(values, v)
		}
		return false
	})
	return values
}

// Transform builds a tree of U from a tree of T in pre-order. fn receives the
// already transformed parent (nil at the top level) and reports whether the
// node's children should be transformed too; when it reports false, or the
// node has no children, the resulting node keeps whatever children fn gave it.
func Transform[T Node[T], U Node[U]](nodes []T, fn func(node T, parent *U) (U, bool)) []U {
	return transform(nodes, nil, fn)
}

func transform[T Node[T], U Node[U]](nodes []T, parent *U, fn func(T, *U) (U, bool)) []U {
	out := make([]U, 0, len(nodes))
	for _, node := range nodes {
		mapped, descend := fn(node, parent)
		if children := node.GetChildren(); descend && children != nil {
			mapped = mapped.WithChildren(transform(children, &mapped, fn))
		}
		out = append(out, mapped)
	}
	return out
}

// SortStable sorts siblings at every level with less, keeping the original
// relative order of equal elements.
func SortStable[T Node[T]](nodes []T, less func(a, b T) bool) []T {
	if nodes == nil {
		return nil
	}

	out := make([]T, len(nodes))
	for i, node := range nodes {
		if children := node.GetChildren(); len(children) > 0 {
			node = node.WithChildren(SortStable(children, less))
		}
		out[i] = node
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
