package bptree

import (
	"math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/require"
)

const benchKeys = 128 * 1024

func benchTree(b *testing.B, degree int) *Tree[uint64, string] {
	bt, err := New[uint64, string](Config{Degree: degree})
	require.NoError(b, err)
	entries := make([]Entry[uint64, string], benchKeys)
	for i := range entries {
		entries[i] = Entry[uint64, string]{Key: uint64(i), Value: "hello world"}
	}
	require.NoError(b, bt.BulkLoad(entries))
	return bt
}

func BenchmarkTree(b *testing.B) {
	b.Run("Insert", func(b *testing.B) {
		bt, err := New[uint64, string](Config{})
		require.NoError(b, err)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err = bt.Insert(rand.Uint64(), "hello world")
			if err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("PureRead", func(b *testing.B) {
		bt := benchTree(b, DefaultDegree)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, found := bt.Get(rand.Uint64N(benchKeys))
			if !found {
				b.Fatal("key not found")
			}
		}
	})
	b.Run("InsertRemove", func(b *testing.B) {
		bt := benchTree(b, DefaultDegree)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := rand.Uint64N(benchKeys)
			bt.Remove(k)
			_, _ = bt.Insert(k, "hello world")
		}
	})
	b.Run("Scan", func(b *testing.B) {
		bt := benchTree(b, DefaultDegree)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			n := 0
			for range bt.Ascend(rand.Uint64N(benchKeys)) {
				n++
				if n == 100 {
					break
				}
			}
		}
	})
	b.Run("BulkLoad", func(b *testing.B) {
		entries := make([]Entry[uint64, string], benchKeys)
		for i := range entries {
			entries[i] = Entry[uint64, string]{Key: uint64(i), Value: "hello world"}
		}
		bt, err := New[uint64, string](Config{})
		require.NoError(b, err)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err = bt.BulkLoad(entries); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkGoogleBTree is the baseline for BenchmarkTree.
func BenchmarkGoogleBTree(b *testing.B) {
	type item struct {
		key uint64
		val string
	}
	less := func(x, y item) bool { return x.key < y.key }
	b.Run("Insert", func(b *testing.B) {
		bt := btree.NewG(DefaultDegree, less)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			bt.ReplaceOrInsert(item{key: rand.Uint64(), val: "hello world"})
		}
	})
	b.Run("PureRead", func(b *testing.B) {
		bt := btree.NewG(DefaultDegree, less)
		for i := uint64(0); i < benchKeys; i++ {
			bt.ReplaceOrInsert(item{key: i, val: "hello world"})
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, found := bt.Get(item{key: rand.Uint64N(benchKeys)}); !found {
				b.Fatal("key not found")
			}
		}
	})
}
