// Package bptree implements an in-memory B+ tree ordered map.
//
// Leaves hold the sorted entries and are chained forward and backward, internal
// nodes only route. Nodes live in a per-tree pool of fixed-size blocks and are
// addressed by generation checked handles, so a merged away node can never be
// reached again through a stale link.
//
// A Tree is not safe for concurrent use.
package bptree

import (
	"cmp"

	"github.com/cockroachdb/errors"
	"github.com/nyan233/bptree/internal/invariants"
)

type Tree[K any, V any] struct {
	cmp     func(a, b K) int
	pool    *nodePool[K, V]
	root    nodeRef
	height  int
	size    int
	version uint64
	degree  int
	minKeys int
	maxKeys int
	path    stack
	tracer  Tracer
	stat    iStat
	closed  bool
}

// New creates an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered, V any](cfg Config) (*Tree[K, V], error) {
	return NewWithCompare[K, V](cfg, cmp.Compare[K])
}

// NewWithCompare creates an empty tree ordered by compare, which must define a
// total order and return a negative, zero or positive result like cmp.Compare.
func NewWithCompare[K any, V any](cfg Config, compare func(a, b K) int) (*Tree[K, V], error) {
	if compare == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil compare func")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	t := &Tree[K, V]{
		cmp:     compare,
		degree:  cfg.Degree,
		minKeys: cfg.Degree,
		maxKeys: 2 * cfg.Degree,
		tracer:  cfg.Tracer,
	}
	t.pool = newNodePool[K, V](cfg.PoolBlockSize, cfg.MaxNodes, t.maxKeys)
	t.pool.onGrow = t.tracePoolGrow
	return t, nil
}

func (t *Tree[K, V]) tracePoolGrow(blocks int) {
	t.trace(EventPoolGrow, 0, nilRef, nilRef, blocks)
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// Height returns the number of internal levels, 0 for a single leaf root or an
// empty tree.
func (t *Tree[K, V]) Height() int {
	return t.height
}

func (t *Tree[K, V]) Degree() int {
	return t.degree
}

// Clear returns every node to the pool. The pool keeps its blocks for reuse.
func (t *Tree[K, V]) Clear() {
	n := t.size
	t.clear()
	t.trace(EventClear, 0, nilRef, nilRef, n)
	t.checkInvariants()
}

func (t *Tree[K, V]) clear() {
	if !t.root.isNil() {
		pending := []stackElement{{node: t.root, tag: t.height}}
		for len(pending) > 0 {
			e := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			if e.tag > 0 {
				for _, child := range t.pool.get(e.node).children {
					pending = append(pending, stackElement{node: child, tag: e.tag - 1})
				}
			}
			t.pool.deallocate(e.node)
		}
	}
	t.root = nilRef
	t.height = 0
	t.size = 0
	t.version++
}

// Close clears the tree and releases the pool's memory. Mutations on a closed
// tree fail with ErrTreeClosed and lookups find nothing.
func (t *Tree[K, V]) Close() error {
	if t.closed {
		return nil
	}
	t.clear()
	t.pool.release()
	t.closed = true
	return nil
}

func (t *Tree[K, V]) checkInvariants() {
	if !invariants.Enabled {
		return
	}
	if err := t.Verify(); err != nil {
		panic(err)
	}
}

func (t *Tree[K, V]) leftmostLeaf() nodeRef {
	ref := t.root
	for h := t.height; h > 0 && !ref.isNil(); h-- {
		ref = t.pool.get(ref).children[0]
	}
	return ref
}

func (t *Tree[K, V]) rightmostLeaf() nodeRef {
	ref := t.root
	for h := t.height; h > 0 && !ref.isNil(); h-- {
		n := t.pool.get(ref)
		ref = n.children[len(n.children)-1]
	}
	return ref
}

// appendEntries appends every entry in key order by walking the leaf chain.
func (t *Tree[K, V]) appendEntries(dst []Entry[K, V]) []Entry[K, V] {
	for ref := t.leftmostLeaf(); !ref.isNil(); {
		n := t.pool.get(ref)
		for i := range n.keys {
			dst = append(dst, Entry[K, V]{Key: n.keys[i], Value: n.vals[i]})
		}
		ref = n.next
	}
	return dst
}

// Entries returns a copy of all entries in ascending key order.
func (t *Tree[K, V]) Entries() []Entry[K, V] {
	return t.appendEntries(make([]Entry[K, V], 0, t.size))
}
