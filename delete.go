package bptree

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Remove deletes key and returns the value it held. Removing an absent key is a
// no-op that reports found == false.
func (t *Tree[K, V]) Remove(key K) (value V, found bool) {
	if t.root.isNil() {
		return
	}
	leafRef := t.descend(key, true)
	leaf := t.pool.get(leafRef)
	i, ok := leaf.search(key, t.cmp)
	if !ok {
		return
	}
	_, value = leaf.removeEntryAt(i)
	found = true
	t.size--
	t.version++
	if t.height == 0 {
		// leaf root, allowed to run down to a single key
		if len(leaf.keys) == 0 {
			t.pool.deallocate(leafRef)
			t.root = nilRef
			t.stat.rootShrinks++
			t.trace(EventRootShrink, 0, leafRef, nilRef, 0)
		}
	} else if len(leaf.keys) < t.minKeys {
		t.rebalance(leaf)
	}
	t.checkInvariants()
	return
}

// rebalance repairs an underfull node whose parent is on top of t.path. Repairs
// that merge take a key out of the parent, so the loop carries on one level up
// until a node is full enough or the root is reached.
func (t *Tree[K, V]) rebalance(n *node[K, V]) {
	height := 0
	for len(n.keys) < t.minKeys {
		parent := t.path.pop()
		if parent.node.isNil() {
			break
		}
		p := t.pool.get(parent.node)
		if !t.fixUnderflow(p, parent.tag, height) {
			return
		}
		height++
		// the root may run down to zero keys, then its only child takes over
		if t.path.peek().node.isNil() {
			if len(p.keys) == 0 {
				t.shrinkRoot(parent.node, p)
			}
			return
		}
		n = p
	}
}

// fixUnderflow repairs p.children[idx] by, in order of preference, borrowing
// from the left sibling, borrowing from the right sibling, merging into the left
// sibling or absorbing the right sibling. It reports whether a merge removed a
// key from p.
func (t *Tree[K, V]) fixUnderflow(p *node[K, V], idx, height int) (merged bool) {
	ref := p.children[idx]
	n := t.pool.get(ref)
	if idx > 0 {
		leftRef := p.children[idx-1]
		if left := t.pool.get(leftRef); len(left.keys) > t.minKeys {
			t.borrowFromLeft(p, idx, left, n)
			t.stat.borrows++
			t.trace(EventBorrowLeft, height, ref, leftRef, len(n.keys))
			return false
		}
	}
	if idx+1 < len(p.children) {
		rightRef := p.children[idx+1]
		if right := t.pool.get(rightRef); len(right.keys) > t.minKeys {
			t.borrowFromRight(p, idx, n, right)
			t.stat.borrows++
			t.trace(EventBorrowRight, height, ref, rightRef, len(n.keys))
			return false
		}
	}
	if idx > 0 {
		leftRef := p.children[idx-1]
		t.mergeChildren(p, idx-1)
		t.trace(EventMergeLeft, height, leftRef, ref, len(t.pool.get(leftRef).keys))
	} else {
		rightRef := p.children[idx+1]
		t.mergeChildren(p, idx)
		t.trace(EventMergeRight, height, ref, rightRef, len(n.keys))
	}
	t.stat.merges++
	return true
}

// borrowFromLeft moves the last entry of left to the front of n, which sits at
// p.children[idx].
func (t *Tree[K, V]) borrowFromLeft(p *node[K, V], idx int, left, n *node[K, V]) {
	switch n.kind {
	case kindLeaf:
		k, v := left.removeEntryAt(len(left.keys) - 1)
		n.insertEntryAt(0, k, v)
		p.keys[idx-1] = k
	case kindInternal:
		k, child := left.popLastChild()
		n.keys = slices.Insert(n.keys, 0, p.keys[idx-1])
		n.children = slices.Insert(n.children, 0, child)
		p.keys[idx-1] = k
	default:
		panic(errors.AssertionFailedf("bptree: borrow into %s node", n.kind))
	}
}

// borrowFromRight moves the first entry of right to the back of n, which sits
// at p.children[idx].
func (t *Tree[K, V]) borrowFromRight(p *node[K, V], idx int, n, right *node[K, V]) {
	switch n.kind {
	case kindLeaf:
		k, v := right.removeEntryAt(0)
		n.keys = append(n.keys, k)
		n.vals = append(n.vals, v)
		p.keys[idx] = right.keys[0]
	case kindInternal:
		k, child := right.popFirstChild()
		n.keys = append(n.keys, p.keys[idx])
		n.children = append(n.children, child)
		p.keys[idx] = k
	default:
		panic(errors.AssertionFailedf("bptree: borrow into %s node", n.kind))
	}
}

// mergeChildren folds p.children[i+1] into p.children[i], drops the separator
// between them from p and frees the right node.
func (t *Tree[K, V]) mergeChildren(p *node[K, V], i int) {
	leftRef, rightRef := p.children[i], p.children[i+1]
	left, right := t.pool.get(leftRef), t.pool.get(rightRef)
	switch left.kind {
	case kindLeaf:
		left.keys = append(left.keys, right.keys...)
		left.vals = append(left.vals, right.vals...)
		left.next = right.next
		if !right.next.isNil() {
			t.pool.get(right.next).prev = leftRef
		}
	case kindInternal:
		left.keys = append(left.keys, p.keys[i])
		left.keys = append(left.keys, right.keys...)
		left.children = append(left.children, right.children...)
	default:
		panic(errors.AssertionFailedf("bptree: merge of %s node", left.kind))
	}
	if len(left.keys) > t.maxKeys {
		panic(errors.AssertionFailedf("bptree: merge produced %d keys, max %d", len(left.keys), t.maxKeys))
	}
	// p.keys[i] goes with children[i+1]
	p.keys = slices.Delete(p.keys, i, i+1)
	p.children = slices.Delete(p.children, i+1, i+2)
	t.pool.deallocate(rightRef)
}

func (t *Tree[K, V]) shrinkRoot(ref nodeRef, root *node[K, V]) {
	child := root.children[0]
	t.pool.deallocate(ref)
	t.root = child
	t.height--
	t.stat.rootShrinks++
	t.trace(EventRootShrink, t.height, child, ref, len(t.pool.get(child).keys))
}
