package bptree

import "github.com/cockroachdb/errors"

var (
	ErrInvalidConfig     = errors.New("bptree: invalid config")
	ErrPoolExhausted     = errors.New("bptree: node pool exhausted")
	ErrUnsortedInput     = errors.New("bptree: bulk load input not strictly ascending")
	ErrTreeClosed        = errors.New("bptree: tree closed")
	ErrCursorInvalidated = errors.New("bptree: tree modified since cursor was positioned")
)
