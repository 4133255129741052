package bptree

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

type Config struct {
	// Degree D: non-root nodes hold between D and 2*D keys, internal nodes up
	// to 2*D+1 children. 0 selects DefaultDegree.
	Degree int
	// PoolBlockSize is the number of node slots the pool grows by. 0 derives it
	// from the system page size.
	PoolBlockSize int
	// MaxNodes caps the number of live nodes, 0 means unlimited. Operations
	// that would need more fail with ErrPoolExhausted and change nothing.
	MaxNodes int
	// Logger receives structural events at debug level when Tracer is nil.
	Logger *slog.Logger
	Tracer Tracer
}

func (c Config) withDefaults() (Config, error) {
	if c.Degree == 0 {
		c.Degree = DefaultDegree
	}
	if c.Degree < minDegree || c.Degree > maxDegree {
		return c, errors.Wrapf(ErrInvalidConfig, "degree %d out of range [%d, %d]", c.Degree, minDegree, maxDegree)
	}
	if c.PoolBlockSize < 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "pool block size %d", c.PoolBlockSize)
	}
	if c.PoolBlockSize == 0 {
		c.PoolBlockSize = defaultPoolBlockSize()
	}
	if c.MaxNodes < 0 {
		return c, errors.Wrapf(ErrInvalidConfig, "max nodes %d", c.MaxNodes)
	}
	if c.Tracer == nil && c.Logger != nil {
		c.Tracer = NewSlogTracer(c.Logger)
	}
	return c, nil
}
