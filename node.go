package bptree

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// node is a pool slot. kind selects the live variant:
//   - kindLeaf: keys and vals are parallel, next/prev chain the leaves in key order
//   - kindInternal: len(children) == len(keys)+1, child i holds keys k with
//     keys[i-1] <= k < keys[i]
//
// keys, vals and children are carved from the pool block with a fixed capacity,
// appends never leave the block.
type node[K any, V any] struct {
	kind     nodeKind
	gen      uint32
	keys     []K
	vals     []V
	children []nodeRef
	// free list link while the slot is free
	next nodeRef
	prev nodeRef
}

func (n *node[K, V]) isLeaf() bool {
	return n.kind == kindLeaf
}

func (n *node[K, V]) search(key K, cmp func(a, b K) int) (int, bool) {
	return slices.BinarySearchFunc(n.keys, key, cmp)
}

// route returns the child to follow for key: the number of separators <= key.
func (n *node[K, V]) route(key K, cmp func(a, b K) int) int {
	i, found := n.search(key, cmp)
	if found {
		i++
	}
	return i
}

func (n *node[K, V]) insertEntryAt(i int, key K, val V) {
	n.keys = slices.Insert(n.keys, i, key)
	n.vals = slices.Insert(n.vals, i, val)
}

func (n *node[K, V]) removeEntryAt(i int) (key K, val V) {
	key, val = n.keys[i], n.vals[i]
	n.keys = slices.Delete(n.keys, i, i+1)
	n.vals = slices.Delete(n.vals, i, i+1)
	return
}

// insertChildAt places sep at keys[i] and right at children[i+1], right being
// the upper half split off children[i].
func (n *node[K, V]) insertChildAt(i int, sep K, right nodeRef) {
	n.keys = slices.Insert(n.keys, i, sep)
	n.children = slices.Insert(n.children, i+1, right)
}

func (n *node[K, V]) popFirstChild() (key K, child nodeRef) {
	key, child = n.keys[0], n.children[0]
	n.keys = slices.Delete(n.keys, 0, 1)
	n.children = slices.Delete(n.children, 0, 1)
	return
}

func (n *node[K, V]) popLastChild() (key K, child nodeRef) {
	last := len(n.keys) - 1
	key, child = n.keys[last], n.children[last+1]
	var zero K
	n.keys[last] = zero
	n.keys = n.keys[:last]
	n.children[last+1] = nilRef
	n.children = n.children[:last+1]
	return
}

// truncate drops everything from index i on, zeroing the vacated slots so the
// pool does not pin caller values.
func (n *node[K, V]) truncate(i int) {
	switch n.kind {
	case kindLeaf:
		clear(n.keys[i:])
		clear(n.vals[i:])
		n.keys = n.keys[:i]
		n.vals = n.vals[:i]
	case kindInternal:
		clear(n.keys[i:])
		clear(n.children[i+1:])
		n.keys = n.keys[:i]
		n.children = n.children[:i+1]
	default:
		panic(errors.AssertionFailedf("bptree: truncate on %s node", n.kind))
	}
}
