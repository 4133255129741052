package bptree

import "strconv"

const (
	DefaultDegree = 32
	minDegree     = 2
	// upper bound keeps one node's key storage within a few pages
	maxDegree = 1024
)

const (
	minPoolBlockSize = 64
	maxPoolBlockSize = 1024
)

type nodeKind uint8

const (
	kindFree nodeKind = iota
	kindLeaf
	kindInternal
)

func (k nodeKind) String() string {
	switch k {
	case kindFree:
		return "free"
	case kindLeaf:
		return "leaf"
	case kindInternal:
		return "internal"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// nodeRef is a handle to a pool slot. gen must match the slot generation for the
// handle to be live; gen 0 is never handed out and marks the nil handle.
type nodeRef struct {
	idx uint32
	gen uint32
}

var nilRef nodeRef

func (r nodeRef) isNil() bool {
	return r.gen == 0
}

func (r nodeRef) String() string {
	if r.isNil() {
		return "nil"
	}
	return strconv.FormatUint(uint64(r.idx), 10) + "@" + strconv.FormatUint(uint64(r.gen), 10)
}

// Entry is a key/value pair as consumed by BulkLoad and produced by Entries.
type Entry[K any, V any] struct {
	Key   K
	Value V
}
