package bptree

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
)

// BulkLoad replaces the tree contents with entries, which must be strictly
// ascending by key. Leaves are packed to capacity in input order and internal
// levels are built bottom-up, in O(n). Unsorted or duplicate keys fail with
// ErrUnsortedInput and a pool that cannot hold the result fails with
// ErrPoolExhausted; in both cases the tree is left as it was.
func (t *Tree[K, V]) BulkLoad(entries []Entry[K, V]) error {
	if t.closed {
		return ErrTreeClosed
	}
	for i := 1; i < len(entries); i++ {
		if t.cmp(entries[i-1].Key, entries[i].Key) >= 0 {
			return errors.Wrapf(ErrUnsortedInput, "entry %d does not sort after entry %d", i, i-1)
		}
	}
	need := t.nodesFor(len(entries))
	if !t.pool.fits(need) {
		return errors.Wrapf(ErrPoolExhausted, "bulk load of %d entries needs %d nodes, limit %d", len(entries), need, t.pool.limit)
	}
	t.clear()
	if err := t.pool.reserve(need); err != nil {
		// unreachable after fits on an empty pool
		return err
	}
	t.build(entries)
	t.stat.bulkLoads++
	t.trace(EventBulkLoad, t.height, t.root, nilRef, t.size)
	t.checkInvariants()
	return nil
}

// BulkLoadSeq collects seq and bulk loads it.
func (t *Tree[K, V]) BulkLoadSeq(seq iter.Seq2[K, V]) error {
	var entries []Entry[K, V]
	for k, v := range seq {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return t.BulkLoad(entries)
}

// chunkSizes splits total items into groups of at most capacity. When the last
// group would fall below fill, the last two groups share their items evenly.
func chunkSizes(total, capacity, fill int) []int {
	if total == 0 {
		return nil
	}
	count := (total + capacity - 1) / capacity
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = capacity
	}
	sizes[count-1] = total - (count-1)*capacity
	if count > 1 && sizes[count-1] < fill {
		combined := capacity + sizes[count-1]
		sizes[count-2] = combined - combined/2
		sizes[count-1] = combined / 2
	}
	return sizes
}

// nodesFor returns how many nodes build allocates for n entries.
func (t *Tree[K, V]) nodesFor(n int) int {
	if n == 0 {
		return 0
	}
	level := (n + t.maxKeys - 1) / t.maxKeys
	total := level
	for level > 1 {
		level = (level + t.maxKeys) / (t.maxKeys + 1)
		total += level
	}
	return total
}

type levelNode[K any] struct {
	ref nodeRef
	// smallest key in the subtree, the separator in front of it one level up
	min K
}

func (t *Tree[K, V]) build(entries []Entry[K, V]) {
	if len(entries) == 0 {
		return
	}
	var (
		sizes = chunkSizes(len(entries), t.maxKeys, t.minKeys)
		level = make([]levelNode[K], 0, len(sizes))
		prev  = nilRef
		off   int
	)
	for _, size := range sizes {
		ref, n := t.pool.allocate(kindLeaf)
		for _, e := range entries[off : off+size] {
			n.keys = append(n.keys, e.Key)
			n.vals = append(n.vals, e.Value)
		}
		n.prev = prev
		if !prev.isNil() {
			t.pool.get(prev).next = ref
		}
		level = append(level, levelNode[K]{ref: ref, min: entries[off].Key})
		prev = ref
		off += size
	}
	height := 0
	for len(level) > 1 {
		sizes = chunkSizes(len(level), t.maxKeys+1, t.minKeys+1)
		next := make([]levelNode[K], 0, len(sizes))
		off = 0
		for _, size := range sizes {
			ref, n := t.pool.allocate(kindInternal)
			group := level[off : off+size]
			for j, child := range group {
				if j > 0 {
					n.keys = append(n.keys, child.min)
				}
				n.children = append(n.children, child.ref)
			}
			next = append(next, levelNode[K]{ref: ref, min: group[0].min})
			off += size
		}
		level = next
		height++
	}
	t.root = level[0].ref
	t.height = height
	t.size = len(entries)
	t.version++
}

// Merge moves every entry of other into t and leaves other empty. On equal
// keys the value from other wins. If t is empty and both trees are configured
// alike the nodes change hands without copying; otherwise both trees are
// collected, sorted and bulk loaded into t. ErrPoolExhausted leaves both trees
// unchanged.
func (t *Tree[K, V]) Merge(other *Tree[K, V]) error {
	if other == nil || other == t {
		return nil
	}
	if t.closed || other.closed {
		return ErrTreeClosed
	}
	if other.root.isNil() {
		return nil
	}
	if t.root.isNil() && t.degree == other.degree && t.pool.limit == other.pool.limit {
		t.pool, other.pool = other.pool, t.pool
		t.pool.onGrow, other.pool.onGrow = t.tracePoolGrow, other.tracePoolGrow
		t.root, t.height, t.size = other.root, other.height, other.size
		other.root, other.height, other.size = nilRef, 0, 0
		t.version++
		other.version++
		t.checkInvariants()
		other.checkInvariants()
		return nil
	}
	entries := t.appendEntries(make([]Entry[K, V], 0, t.size+other.size))
	entries = other.appendEntries(entries)
	// stable: for equal keys t's entry stays in front of other's
	slices.SortStableFunc(entries, func(a, b Entry[K, V]) int {
		return t.cmp(a.Key, b.Key)
	})
	entries = dedupKeepLast(entries, t.cmp)
	if need := t.nodesFor(len(entries)); !t.pool.fits(need) {
		return errors.Wrapf(ErrPoolExhausted, "merge of %d entries needs %d nodes, limit %d", len(entries), need, t.pool.limit)
	}
	other.Clear()
	return t.BulkLoad(entries)
}

func dedupKeepLast[K any, V any](entries []Entry[K, V], cmp func(a, b K) int) []Entry[K, V] {
	out := entries[:0]
	for i, e := range entries {
		if i+1 < len(entries) && cmp(e.Key, entries[i+1].Key) == 0 {
			continue
		}
		out = append(out, e)
	}
	clear(entries[len(out):])
	return entries[:len(out)]
}
