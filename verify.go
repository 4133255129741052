package bptree

import "github.com/cockroachdb/errors"

// bound is one side of the key interval a subtree may hold; set is false for
// the open ends at the far left and right of the tree.
type bound[K any] struct {
	key K
	set bool
}

type verifier[K any, V any] struct {
	t      *Tree[K, V]
	leaves []nodeRef
	nodes  int
	size   int
}

// Verify walks the whole tree and checks its structure: key order inside and
// across nodes, fill limits, uniform leaf depth, the leaf chain, the entry count
// and the pool's live slot count. It returns the first violation found.
func (t *Tree[K, V]) Verify() error {
	if t.root.isNil() {
		if t.size != 0 || t.height != 0 {
			return errors.AssertionFailedf("bptree: empty tree with size %d height %d", t.size, t.height)
		}
		if t.pool.live != 0 {
			return errors.AssertionFailedf("bptree: empty tree holds %d live nodes", t.pool.live)
		}
		return nil
	}
	v := &verifier[K, V]{t: t}
	if err := v.walk(t.root, t.height, bound[K]{}, bound[K]{}); err != nil {
		return err
	}
	if v.size != t.size {
		return errors.AssertionFailedf("bptree: leaves hold %d entries, size is %d", v.size, t.size)
	}
	if v.nodes != t.pool.live {
		return errors.AssertionFailedf("bptree: %d reachable nodes, pool has %d live", v.nodes, t.pool.live)
	}
	return v.checkChain()
}

func (v *verifier[K, V]) walk(ref nodeRef, height int, lo, hi bound[K]) error {
	t := v.t
	if !t.pool.valid(ref) {
		return errors.AssertionFailedf("bptree: dangling handle %s at height %d", ref, height)
	}
	n := t.pool.get(ref)
	v.nodes++
	want := kindLeaf
	if height > 0 {
		want = kindInternal
	}
	if n.kind != want {
		return errors.AssertionFailedf("bptree: node %s is %s at height %d", ref, n.kind, height)
	}
	if len(n.keys) > t.maxKeys {
		return errors.AssertionFailedf("bptree: node %s holds %d keys, max %d", ref, len(n.keys), t.maxKeys)
	}
	if ref == t.root {
		if len(n.keys) == 0 {
			return errors.AssertionFailedf("bptree: root %s has no keys", ref)
		}
	} else if len(n.keys) < t.minKeys {
		return errors.AssertionFailedf("bptree: node %s holds %d keys, min %d", ref, len(n.keys), t.minKeys)
	}
	for i, k := range n.keys {
		if i > 0 && t.cmp(n.keys[i-1], k) >= 0 {
			return errors.AssertionFailedf("bptree: node %s keys out of order at %d", ref, i)
		}
		if lo.set && t.cmp(k, lo.key) < 0 {
			return errors.AssertionFailedf("bptree: node %s key %d below its separator", ref, i)
		}
		if hi.set && t.cmp(k, hi.key) >= 0 {
			return errors.AssertionFailedf("bptree: node %s key %d not below its separator", ref, i)
		}
	}
	if n.isLeaf() {
		if len(n.vals) != len(n.keys) {
			return errors.AssertionFailedf("bptree: leaf %s has %d keys and %d values", ref, len(n.keys), len(n.vals))
		}
		v.size += len(n.keys)
		v.leaves = append(v.leaves, ref)
		return nil
	}
	if len(n.children) != len(n.keys)+1 {
		return errors.AssertionFailedf("bptree: internal %s has %d keys and %d children", ref, len(n.keys), len(n.children))
	}
	for i, child := range n.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = bound[K]{key: n.keys[i-1], set: true}
		}
		if i < len(n.keys) {
			chi = bound[K]{key: n.keys[i], set: true}
		}
		if err := v.walk(child, height-1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

// checkChain compares the next/prev links with the leaf order of the walk.
func (v *verifier[K, V]) checkChain() error {
	p := v.t.pool
	for i, ref := range v.leaves {
		n := p.get(ref)
		wantPrev, wantNext := nilRef, nilRef
		if i > 0 {
			wantPrev = v.leaves[i-1]
		}
		if i+1 < len(v.leaves) {
			wantNext = v.leaves[i+1]
		}
		if n.prev != wantPrev {
			return errors.AssertionFailedf("bptree: leaf %s prev is %s, want %s", ref, n.prev, wantPrev)
		}
		if n.next != wantNext {
			return errors.AssertionFailedf("bptree: leaf %s next is %s, want %s", ref, n.next, wantNext)
		}
	}
	return nil
}
