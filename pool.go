package bptree

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/nyan233/bptree/internal/sys"
)

// nodePool hands out node slots from fixed-size blocks. Free slots are threaded
// into a singly linked list through their next field, each link carrying the
// generation the slot will be handed out with. Blocks are never returned to the
// runtime until release, so *node pointers stay valid while a slot is live.
type nodePool[K any, V any] struct {
	blocks    [][]node[K, V]
	blockSize int
	// limit caps live slots, 0 means unlimited
	limit     int
	keyCap    int
	childCap  int
	free      nodeRef
	freeCount int
	live      int
	onGrow    func(blocks int)
}

func newNodePool[K any, V any](blockSize, limit, maxKeys int) *nodePool[K, V] {
	return &nodePool[K, V]{
		blockSize: blockSize,
		limit:     limit,
		// one spare key and child absorb the overflow before a split
		keyCap:   maxKeys + 1,
		childCap: maxKeys + 2,
	}
}

func defaultPoolBlockSize() int {
	n := sys.GetSysPageSize() / 16
	if n < minPoolBlockSize {
		n = minPoolBlockSize
	}
	if n > maxPoolBlockSize {
		n = maxPoolBlockSize
	}
	return n
}

// lineStride rounds a per-node array of n elements up to whole cache lines so
// that each node's keys start on a fresh line inside the block backing array.
func lineStride(n int, elemSize uintptr) int {
	if elemSize == 0 {
		return n
	}
	line := uintptr(sys.CacheLineSize())
	b := (uintptr(n)*elemSize + line - 1) / line * line
	return int((b + elemSize - 1) / elemSize)
}

func (p *nodePool[K, V]) capacity() int {
	return len(p.blocks) * p.blockSize
}

func (p *nodePool[K, V]) grow() {
	var (
		base        = p.capacity()
		keyStride   = lineStride(p.keyCap, unsafe.Sizeof(*new(K)))
		valStride   = lineStride(p.keyCap, unsafe.Sizeof(*new(V)))
		childStride = lineStride(p.childCap, unsafe.Sizeof(nodeRef{}))
		keys        = make([]K, p.blockSize*keyStride)
		vals        = make([]V, p.blockSize*valStride)
		children    = make([]nodeRef, p.blockSize*childStride)
		blk         = make([]node[K, V], p.blockSize)
	)
	for i := range blk {
		n := &blk[i]
		n.gen = 1
		n.keys = keys[i*keyStride : i*keyStride : i*keyStride+p.keyCap]
		n.vals = vals[i*valStride : i*valStride : i*valStride+p.keyCap]
		n.children = children[i*childStride : i*childStride : i*childStride+p.childCap]
	}
	// thread back to front so the lowest slot of the block is handed out first
	for i := len(blk) - 1; i >= 0; i-- {
		blk[i].next = p.free
		p.free = nodeRef{idx: uint32(base + i), gen: blk[i].gen}
	}
	p.blocks = append(p.blocks, blk)
	p.freeCount += len(blk)
	if p.onGrow != nil {
		p.onGrow(len(p.blocks))
	}
}

// fits reports whether n live nodes are allowed by the pool limit at all.
func (p *nodePool[K, V]) fits(n int) bool {
	return p.limit <= 0 || n <= p.limit
}

// reserve makes sure the next n allocations succeed without growing past the
// limit. Callers reserve before mutating so a refusal leaves the tree intact.
func (p *nodePool[K, V]) reserve(n int) error {
	if n <= 0 {
		return nil
	}
	if p.limit > 0 && p.live+n > p.limit {
		return errors.Wrapf(ErrPoolExhausted, "need %d nodes, %d of %d in use", n, p.live, p.limit)
	}
	for p.freeCount < n {
		p.grow()
	}
	return nil
}

// allocate pops a zeroed slot off the free list. It does not fail: callers
// have reserved the slots they use.
func (p *nodePool[K, V]) allocate(kind nodeKind) (nodeRef, *node[K, V]) {
	if kind == kindFree {
		panic(errors.AssertionFailedf("bptree: allocate called with kind %s", kind))
	}
	if p.limit > 0 && p.live >= p.limit {
		panic(errors.AssertionFailedf("bptree: allocation past pool limit %d without reservation", p.limit))
	}
	if p.free.isNil() {
		p.grow()
	}
	ref := p.free
	n := p.slot(ref.idx)
	if n.kind != kindFree || n.gen != ref.gen {
		panic(errors.AssertionFailedf("bptree: free list corrupted at slot %s (kind %s, gen %d)", ref, n.kind, n.gen))
	}
	p.free = n.next
	n.next = nilRef
	n.prev = nilRef
	n.kind = kind
	p.freeCount--
	p.live++
	return ref, n
}

// deallocate zeroes the slot, bumps its generation so every outstanding handle
// turns stale, and pushes it onto the free list.
func (p *nodePool[K, V]) deallocate(ref nodeRef) {
	n := p.get(ref)
	clear(n.keys)
	clear(n.vals)
	clear(n.children)
	n.keys = n.keys[:0]
	n.vals = n.vals[:0]
	n.children = n.children[:0]
	n.prev = nilRef
	n.kind = kindFree
	n.gen++
	if n.gen == 0 {
		n.gen = 1
	}
	n.next = p.free
	p.free = nodeRef{idx: ref.idx, gen: n.gen}
	p.freeCount++
	p.live--
}

func (p *nodePool[K, V]) slot(idx uint32) *node[K, V] {
	return &p.blocks[int(idx)/p.blockSize][int(idx)%p.blockSize]
}

// get resolves a live handle. Nil, out of range and stale handles are internal
// bugs and panic.
func (p *nodePool[K, V]) get(ref nodeRef) *node[K, V] {
	if ref.isNil() || int(ref.idx) >= p.capacity() {
		panic(errors.AssertionFailedf("bptree: invalid node handle %s (pool capacity %d)", ref, p.capacity()))
	}
	n := p.slot(ref.idx)
	if n.gen != ref.gen || n.kind == kindFree {
		panic(errors.AssertionFailedf("bptree: stale node handle %s (slot gen %d, kind %s)", ref, n.gen, n.kind))
	}
	return n
}

// valid is the non-panicking form of get.
func (p *nodePool[K, V]) valid(ref nodeRef) bool {
	if ref.isNil() || int(ref.idx) >= p.capacity() {
		return false
	}
	n := p.slot(ref.idx)
	return n.gen == ref.gen && n.kind != kindFree
}

// release drops every block. Outstanding handles all become out of range.
func (p *nodePool[K, V]) release() {
	p.blocks = nil
	p.free = nilRef
	p.freeCount = 0
	p.live = 0
}
