package bptree

import (
	"context"
	"log/slog"
	"strconv"
)

type EventKind uint8

const (
	EventLeafSplit EventKind = iota + 1
	EventInternalSplit
	EventBorrowLeft
	EventBorrowRight
	EventMergeLeft
	EventMergeRight
	EventRootGrow
	EventRootShrink
	EventPoolGrow
	EventBulkLoad
	EventClear
)

var eventNames = [...]string{
	EventLeafSplit:     "leaf_split",
	EventInternalSplit: "internal_split",
	EventBorrowLeft:    "borrow_left",
	EventBorrowRight:   "borrow_right",
	EventMergeLeft:     "merge_left",
	EventMergeRight:    "merge_right",
	EventRootGrow:      "root_grow",
	EventRootShrink:    "root_shrink",
	EventPoolGrow:      "pool_grow",
	EventBulkLoad:      "bulk_load",
	EventClear:         "clear",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return "event(" + strconv.Itoa(int(k)) + ")"
}

// Event describes one structural change. Node and Sibling are pool slot
// indexes; Height is the level of Node (0 for leaves). Keys is the key count of
// Node after the change, or the entry count for bulk loads and clears, or the
// block count for pool growth.
type Event struct {
	Kind    EventKind
	Height  int
	Node    uint32
	Sibling uint32
	Keys    int
}

// Tracer observes structural changes of a tree. It is called synchronously
// from inside tree operations and must not touch the tree.
type Tracer interface {
	Trace(ev Event)
}

type TracerFunc func(ev Event)

func (f TracerFunc) Trace(ev Event) {
	f(ev)
}

type slogTracer struct {
	logger *slog.Logger
}

func NewSlogTracer(logger *slog.Logger) Tracer {
	return &slogTracer{logger: logger}
}

func (s *slogTracer) Trace(ev Event) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "bptree "+ev.Kind.String(),
		slog.Int("height", ev.Height),
		slog.Uint64("node", uint64(ev.Node)),
		slog.Uint64("sibling", uint64(ev.Sibling)),
		slog.Int("keys", ev.Keys),
	)
}

func (t *Tree[K, V]) trace(kind EventKind, height int, n, sibling nodeRef, keys int) {
	if t.tracer == nil {
		return
	}
	t.tracer.Trace(Event{
		Kind:    kind,
		Height:  height,
		Node:    n.idx,
		Sibling: sibling.idx,
		Keys:    keys,
	})
}
