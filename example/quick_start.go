package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/nyan233/bptree"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t, err := bptree.New[uint64, string](bptree.Config{
		Degree: 4,
		Logger: logger,
	})
	if err != nil {
		panic(err)
	}
	// write data, splits are logged at debug level
	for i := uint64(0); i < 64; i++ {
		_, err = t.Insert(i, strconv.FormatUint(rand.Uint64(), 10))
		if err != nil {
			panic(fmt.Errorf("insert err:%v", err))
		}
	}
	// read data
	for i := 0; i < 8; i++ {
		k := rand.Uint64N(63)
		v, found := t.Get(k)
		if !found {
			panic(fmt.Errorf("not found :%d", k))
		}
		fmt.Printf("tree.getVal key=%d, val=%s\n", k, v)
	}
	// range over a window with a cursor
	c := t.RangeSearch(60)
	for ok := c.Valid(); ok; ok, err = c.Next() {
		fmt.Printf("tree.cursor key=%d\n", c.Key())
	}
	if err != nil {
		panic(err)
	}
	for k := uint64(0); k < 32; k++ {
		t.Remove(k)
	}
	// build a second tree in one pass and merge it in
	other, err := bptree.New[uint64, string](bptree.Config{Degree: 4})
	if err != nil {
		panic(err)
	}
	entries := make([]bptree.Entry[uint64, string], 0, 32)
	for k := uint64(100); k < 132; k++ {
		entries = append(entries, bptree.Entry[uint64, string]{Key: k, Value: "bulk"})
	}
	if err = other.BulkLoad(entries); err != nil {
		panic(err)
	}
	if err = t.Merge(other); err != nil {
		panic(err)
	}
	if err = t.Verify(); err != nil {
		panic(err)
	}
	fmt.Printf("tree.len=%d, height=%d, stat=%+v\n", t.Len(), t.Height(), t.Stat())
	if err = t.Close(); err != nil {
		panic(fmt.Errorf("close err:%v", err))
	}
}
