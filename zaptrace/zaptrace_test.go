package zaptrace

import (
	"testing"

	"github.com/nyan233/bptree"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree, err := bptree.New[int, int](bptree.Config{
		Degree: 2,
		Tracer: New(zap.New(core)),
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = tree.Insert(i, i)
		require.NoError(t, err)
	}
	splits := logs.FilterMessage("leaf_split").AllUntimed()
	require.Len(t, splits, 1)
	require.Equal(t, "bptree", splits[0].LoggerName)
	fields := splits[0].ContextMap()
	require.EqualValues(t, 0, fields["height"])
	require.EqualValues(t, 2, fields["keys"])
	require.Equal(t, 1, logs.FilterMessage("root_grow").Len())
	require.Equal(t, 1, logs.FilterMessage("pool_grow").Len())
}

func TestTracerLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tree, err := bptree.New[int, int](bptree.Config{
		Degree: 2,
		Tracer: New(zap.New(core)),
	})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		_, err = tree.Insert(i, i)
		require.NoError(t, err)
	}
	require.Zero(t, logs.Len())
}

func TestNilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		New(nil).Trace(bptree.Event{Kind: bptree.EventClear})
	})
}
