package bptree

type ExportStat struct {
	LeafSplits     uint64
	InternalSplits uint64
	Borrows        uint64
	Merges         uint64
	RootGrows      uint64
	RootShrinks    uint64
	BulkLoads      uint64
	PoolBlocks     int
	PoolSlots      int
	PoolLive       int
	PoolFree       int
}

// the tree is single threaded, plain counters are enough
type iStat struct {
	leafSplits     uint64
	internalSplits uint64
	borrows        uint64
	merges         uint64
	rootGrows      uint64
	rootShrinks    uint64
	bulkLoads      uint64
}

// Stat returns the structural counters accumulated since the tree was created
// together with the current occupancy of its node pool.
func (t *Tree[K, V]) Stat() ExportStat {
	return ExportStat{
		LeafSplits:     t.stat.leafSplits,
		InternalSplits: t.stat.internalSplits,
		Borrows:        t.stat.borrows,
		Merges:         t.stat.merges,
		RootGrows:      t.stat.rootGrows,
		RootShrinks:    t.stat.rootShrinks,
		BulkLoads:      t.stat.bulkLoads,
		PoolBlocks:     len(t.pool.blocks),
		PoolSlots:      t.pool.capacity(),
		PoolLive:       t.pool.live,
		PoolFree:       t.pool.freeCount,
	}
}
