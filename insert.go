package bptree

// Insert stores value under key. An existing key has its value overwritten and
// replaced is true; the structure is left untouched in that case. The only
// errors are ErrPoolExhausted, in which case nothing changed, and ErrTreeClosed.
func (t *Tree[K, V]) Insert(key K, value V) (replaced bool, err error) {
	if t.closed {
		return false, ErrTreeClosed
	}
	if t.root.isNil() {
		if err = t.pool.reserve(1); err != nil {
			return false, err
		}
		ref, n := t.pool.allocate(kindLeaf)
		n.insertEntryAt(0, key, value)
		t.root, t.height, t.size = ref, 0, 1
		t.version++
		t.checkInvariants()
		return false, nil
	}
	leafRef := t.descend(key, true)
	leaf := t.pool.get(leafRef)
	i, found := leaf.search(key, t.cmp)
	if found {
		leaf.vals[i] = value
		return true, nil
	}
	if err = t.pool.reserve(t.splitsNeeded(leaf)); err != nil {
		return false, err
	}
	leaf.insertEntryAt(i, key, value)
	t.size++
	t.version++
	if len(leaf.keys) > t.maxKeys {
		t.splitUp(leafRef, leaf)
	}
	t.checkInvariants()
	return false, nil
}

// splitsNeeded counts the nodes an insert into leaf allocates: one per full node
// from the leaf upward along t.path, plus a new root when every level is full.
func (t *Tree[K, V]) splitsNeeded(leaf *node[K, V]) int {
	if len(leaf.keys) < t.maxKeys {
		return 0
	}
	need := 1
	for i := t.path.size() - 1; i >= 0; i-- {
		if len(t.pool.get(t.path.list[i].node).keys) < t.maxKeys {
			return need
		}
		need++
	}
	return need + 1
}

// splitUp splits the overfull leaf and pushes separators up t.path until a
// parent absorbs one without overflowing, growing a new root if none does.
func (t *Tree[K, V]) splitUp(leafRef nodeRef, leaf *node[K, V]) {
	sep, right := t.splitLeaf(leafRef, leaf)
	height := 1
	for {
		parent := t.path.pop()
		if parent.node.isNil() {
			t.growRoot(sep, right)
			return
		}
		p := t.pool.get(parent.node)
		p.insertChildAt(parent.tag, sep, right)
		if len(p.keys) <= t.maxKeys {
			return
		}
		sep, right = t.splitInternal(parent.node, p, height)
		height++
	}
}

// splitLeaf moves the upper half of n into a new leaf linked right after it
// and returns the new leaf's first key as the separator.
func (t *Tree[K, V]) splitLeaf(ref nodeRef, n *node[K, V]) (sep K, rightRef nodeRef) {
	mid := len(n.keys) / 2
	rightRef, right := t.pool.allocate(kindLeaf)
	right.keys = append(right.keys, n.keys[mid:]...)
	right.vals = append(right.vals, n.vals[mid:]...)
	n.truncate(mid)
	right.next = n.next
	right.prev = ref
	if !n.next.isNil() {
		t.pool.get(n.next).prev = rightRef
	}
	n.next = rightRef
	t.stat.leafSplits++
	t.trace(EventLeafSplit, 0, ref, rightRef, len(n.keys))
	return right.keys[0], rightRef
}

// splitInternal promotes the middle key of n; keys and children above it move
// to a new internal node.
func (t *Tree[K, V]) splitInternal(ref nodeRef, n *node[K, V], height int) (sep K, rightRef nodeRef) {
	mid := len(n.keys) / 2
	sep = n.keys[mid]
	rightRef, right := t.pool.allocate(kindInternal)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	n.truncate(mid)
	t.stat.internalSplits++
	t.trace(EventInternalSplit, height, ref, rightRef, len(n.keys))
	return sep, rightRef
}

func (t *Tree[K, V]) growRoot(sep K, right nodeRef) {
	ref, n := t.pool.allocate(kindInternal)
	n.keys = append(n.keys, sep)
	n.children = append(n.children, t.root, right)
	t.root = ref
	t.height++
	t.stat.rootGrows++
	t.trace(EventRootGrow, t.height, ref, right, 1)
}
