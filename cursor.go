package bptree

import "github.com/cockroachdb/errors"

// Cursor walks the leaf chain in either direction. It is positioned on an
// entry or exhausted. Any structural or membership change of the tree after
// positioning makes Next and Prev fail with ErrCursorInvalidated; First, Last
// and Seek reposition and clear that state. Overwriting the value of an
// existing key does not invalidate cursors.
type Cursor[K any, V any] struct {
	t       *Tree[K, V]
	leaf    nodeRef
	pos     int
	version uint64
}

// NewCursor returns an exhausted cursor; position it with First, Last or Seek.
func (t *Tree[K, V]) NewCursor() *Cursor[K, V] {
	return &Cursor[K, V]{t: t, version: t.version}
}

// RangeSearch returns a cursor on the first entry with a key >= key.
func (t *Tree[K, V]) RangeSearch(key K) *Cursor[K, V] {
	c := t.NewCursor()
	c.Seek(key)
	return c
}

func (c *Cursor[K, V]) set(ref nodeRef, pos int) bool {
	c.leaf, c.pos, c.version = ref, pos, c.t.version
	return !ref.isNil()
}

func (c *Cursor[K, V]) First() bool {
	return c.set(c.t.leftmostLeaf(), 0)
}

func (c *Cursor[K, V]) Last() bool {
	ref := c.t.rightmostLeaf()
	if ref.isNil() {
		return c.set(nilRef, 0)
	}
	return c.set(ref, len(c.t.pool.get(ref).keys)-1)
}

// Seek positions the cursor on the first entry with a key >= key.
func (c *Cursor[K, V]) Seek(key K) bool {
	return c.set(c.t.seekGE(key))
}

// SeekLE positions the cursor on the last entry with a key <= key.
func (c *Cursor[K, V]) SeekLE(key K) bool {
	return c.set(c.t.seekLE(key))
}

func (c *Cursor[K, V]) Valid() bool {
	return !c.leaf.isNil() && c.version == c.t.version
}

func (c *Cursor[K, V]) check() error {
	if c.version != c.t.version {
		c.leaf = nilRef
		return errors.WithStack(ErrCursorInvalidated)
	}
	return nil
}

func (c *Cursor[K, V]) Next() (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	if c.leaf.isNil() {
		return false, nil
	}
	n := c.t.pool.get(c.leaf)
	if c.pos+1 < len(n.keys) {
		c.pos++
		return true, nil
	}
	c.leaf, c.pos = n.next, 0
	return !c.leaf.isNil(), nil
}

func (c *Cursor[K, V]) Prev() (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	if c.leaf.isNil() {
		return false, nil
	}
	if c.pos > 0 {
		c.pos--
		return true, nil
	}
	c.leaf = c.t.pool.get(c.leaf).prev
	if c.leaf.isNil() {
		return false, nil
	}
	c.pos = len(c.t.pool.get(c.leaf).keys) - 1
	return true, nil
}

// Key returns the current key. The cursor must be Valid.
func (c *Cursor[K, V]) Key() K {
	return c.current().keys[c.pos]
}

// Value returns the current value. The cursor must be Valid.
func (c *Cursor[K, V]) Value() V {
	return c.current().vals[c.pos]
}

func (c *Cursor[K, V]) current() *node[K, V] {
	if !c.Valid() {
		panic(errors.New("bptree: cursor is not positioned"))
	}
	return c.t.pool.get(c.leaf)
}
