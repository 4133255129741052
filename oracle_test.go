package bptree

import (
	"math/rand/v2"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/require"
	"github.com/zbh255/gocode/random"
)

func lessEntry(a, b Entry[int, string]) bool {
	return a.Key < b.Key
}

// TestAgainstBTree runs random operations against a tree and a google/btree
// holding the same entries and compares every answer.
func TestAgainstBTree(t *testing.T) {
	for _, degree := range []int{2, 3, 7, DefaultDegree} {
		r := rand.New(rand.NewPCG(uint64(degree), 11))
		tree := newTestTree(t, degree)
		oracle := btree.NewG(4, lessEntry)
		keySpace := 2000
		for step := 0; step < 20000; step++ {
			k := r.IntN(keySpace)
			switch op := r.IntN(10); {
			case op < 5:
				v := random.GenStringOnAscii(8)
				replaced, err := tree.Insert(k, v)
				require.NoError(t, err)
				_, had := oracle.ReplaceOrInsert(Entry[int, string]{Key: k, Value: v})
				require.Equal(t, had, replaced)
			case op < 8:
				v, found := tree.Remove(k)
				old, had := oracle.Delete(Entry[int, string]{Key: k})
				require.Equal(t, had, found)
				require.Equal(t, old.Value, v)
			case op < 9:
				v, found := tree.Get(k)
				want, had := oracle.Get(Entry[int, string]{Key: k})
				require.Equal(t, had, found)
				require.Equal(t, want.Value, v)
			default:
				var got, want []Entry[int, string]
				for key, val := range tree.Ascend(k) {
					got = append(got, Entry[int, string]{key, val})
					if len(got) == 16 {
						break
					}
				}
				oracle.AscendGreaterOrEqual(Entry[int, string]{Key: k}, func(e Entry[int, string]) bool {
					want = append(want, e)
					return len(want) < 16
				})
				require.Equal(t, want, got)
			}
			require.Equal(t, oracle.Len(), tree.Len())
			if step%500 == 0 {
				require.NoError(t, tree.Verify())
			}
		}
		require.NoError(t, tree.Verify())
		want := make([]Entry[int, string], 0, oracle.Len())
		oracle.Ascend(func(e Entry[int, string]) bool {
			want = append(want, e)
			return true
		})
		require.Equal(t, want, tree.Entries())
		if first, ok := oracle.Min(); ok {
			k, _ := tree.MinKey()
			require.Equal(t, first.Key, k)
		}
		if last, ok := oracle.Max(); ok {
			k, _ := tree.MaxKey()
			require.Equal(t, last.Key, k)
		}
	}
}
