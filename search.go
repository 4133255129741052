package bptree

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// descend walks from the root to the leaf that key routes to. When record is
// set every internal node passed and the child index taken are pushed onto
// t.path, root first.
func (t *Tree[K, V]) descend(key K, record bool) nodeRef {
	if record {
		t.path.reset()
	}
	ref := t.root
	for h := t.height; h > 0; h-- {
		n := t.pool.get(ref)
		i := n.route(key, t.cmp)
		if record {
			t.path.push(stackElement{node: ref, tag: i})
		}
		ref = n.children[i]
	}
	return ref
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (value V, found bool) {
	if t.root.isNil() {
		return
	}
	n := t.pool.get(t.descend(key, false))
	i, ok := n.search(key, t.cmp)
	if !ok {
		return
	}
	return n.vals[i], true
}

func (t *Tree[K, V]) Has(key K) bool {
	_, found := t.Get(key)
	return found
}

func (t *Tree[K, V]) MinKey() (key K, found bool) {
	if t.root.isNil() {
		return
	}
	return t.pool.get(t.leftmostLeaf()).keys[0], true
}

func (t *Tree[K, V]) MaxKey() (key K, found bool) {
	if t.root.isNil() {
		return
	}
	n := t.pool.get(t.rightmostLeaf())
	return n.keys[len(n.keys)-1], true
}

// seekGE finds the first entry with a key >= key. Separators may be stale after
// removals, so the routed leaf can be exhausted and the answer lies at the
// start of the next one.
func (t *Tree[K, V]) seekGE(key K) (nodeRef, int) {
	if t.root.isNil() {
		return nilRef, 0
	}
	ref := t.descend(key, false)
	n := t.pool.get(ref)
	i, _ := n.search(key, t.cmp)
	if i < len(n.keys) {
		return ref, i
	}
	if n.next.isNil() {
		return nilRef, 0
	}
	return n.next, 0
}

// seekLE finds the last entry with a key <= key.
func (t *Tree[K, V]) seekLE(key K) (nodeRef, int) {
	if t.root.isNil() {
		return nilRef, 0
	}
	ref := t.descend(key, false)
	n := t.pool.get(ref)
	i, found := n.search(key, t.cmp)
	if found {
		return ref, i
	}
	if i > 0 {
		return ref, i - 1
	}
	if n.prev.isNil() {
		return nilRef, 0
	}
	prev := t.pool.get(n.prev)
	return n.prev, len(prev.keys) - 1
}

func (t *Tree[K, V]) mustUnchanged(version uint64) {
	if t.version != version {
		panic(errors.Wrap(ErrCursorInvalidated, "tree modified during iteration"))
	}
}

func (t *Tree[K, V]) ascendFrom(ref nodeRef, pos int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		version := t.version
		for !ref.isNil() {
			n := t.pool.get(ref)
			for ; pos < len(n.keys); pos++ {
				if !yield(n.keys[pos], n.vals[pos]) {
					return
				}
				t.mustUnchanged(version)
			}
			ref, pos = n.next, 0
		}
	}
}

func (t *Tree[K, V]) descendFrom(ref nodeRef, pos int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		version := t.version
		for !ref.isNil() {
			n := t.pool.get(ref)
			for ; pos >= 0; pos-- {
				if !yield(n.keys[pos], n.vals[pos]) {
					return
				}
				t.mustUnchanged(version)
			}
			ref = n.prev
			if !ref.isNil() {
				pos = len(t.pool.get(ref).keys) - 1
			}
		}
	}
}

// Ascend yields the entries with keys >= start in ascending order. The
// sequence is evaluated lazily and can be ranged over any number of times; the
// tree must not be modified while it is being ranged over.
func (t *Tree[K, V]) Ascend(start K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ref, pos := t.seekGE(start)
		t.ascendFrom(ref, pos)(yield)
	}
}

// Descend yields the entries with keys <= start in descending order.
func (t *Tree[K, V]) Descend(start K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ref, pos := t.seekLE(start)
		t.descendFrom(ref, pos)(yield)
	}
}

// All yields every entry in ascending order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.ascendFrom(t.leftmostLeaf(), 0)(yield)
	}
}

// Backward yields every entry in descending order.
func (t *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ref := t.rightmostLeaf()
		if ref.isNil() {
			return
		}
		t.descendFrom(ref, len(t.pool.get(ref).keys)-1)(yield)
	}
}

// Range calls fn for every entry with a key >= start in ascending order until
// fn returns false.
func (t *Tree[K, V]) Range(start K, fn func(key K, val V) bool) {
	for k, v := range t.Ascend(start) {
		if !fn(k, v) {
			return
		}
	}
}
