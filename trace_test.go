package bptree

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracer(t *testing.T) {
	var events []Event
	tree, err := New[int, string](Config{
		Degree: 2,
		Tracer: TracerFunc(func(ev Event) {
			events = append(events, ev)
		}),
	})
	require.NoError(t, err)
	insertKeys(t, tree, 1, 2, 3, 4, 5)
	kinds := func() []EventKind {
		var out []EventKind
		for _, ev := range events {
			out = append(out, ev.Kind)
		}
		return out
	}
	require.Equal(t, []EventKind{EventPoolGrow, EventLeafSplit, EventRootGrow}, kinds())
	require.Equal(t, 2, events[1].Keys)
	require.Equal(t, 1, events[2].Height)

	events = events[:0]
	tree.Remove(5)
	tree.Remove(4)
	require.Equal(t, []EventKind{EventMergeLeft, EventRootShrink}, kinds())

	events = events[:0]
	require.NoError(t, tree.BulkLoad(rangeEntries(3)))
	tree.Clear()
	require.Equal(t, []EventKind{EventBulkLoad, EventClear}, kinds())
	require.Equal(t, 3, events[0].Keys)
	require.Equal(t, 3, events[1].Keys)
}

func TestSlogTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tree, err := New[int, int](Config{Degree: 2, Logger: logger})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = tree.Insert(i, i)
		require.NoError(t, err)
	}
	out := buf.String()
	require.Contains(t, out, `msg="bptree leaf_split"`)
	require.Contains(t, out, "keys=2")
	require.Contains(t, out, `msg="bptree root_grow"`)

	buf.Reset()
	quiet := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	tree, err = New[int, int](Config{Degree: 2, Logger: quiet})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = tree.Insert(i, i)
		require.NoError(t, err)
	}
	require.Empty(t, buf.String())
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "merge_right", EventMergeRight.String())
	require.Equal(t, "event(99)", EventKind(99).String())
	require.Equal(t, "event(0)", EventKind(0).String())
}
