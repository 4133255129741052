// Package zaptrace reports bptree structural events through a zap logger.
package zaptrace

import (
	"github.com/nyan233/bptree"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type tracer struct {
	logger *zap.Logger
}

// New returns a tracer that writes each event at debug level. A nil logger
// yields a no-op tracer.
func New(logger *zap.Logger) bptree.Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tracer{logger: logger.Named("bptree")}
}

func (t *tracer) Trace(ev bptree.Event) {
	ce := t.logger.Check(zapcore.DebugLevel, ev.Kind.String())
	if ce == nil {
		return
	}
	ce.Write(
		zap.Int("height", ev.Height),
		zap.Uint32("node", ev.Node),
		zap.Uint32("sibling", ev.Sibling),
		zap.Int("keys", ev.Keys),
	)
}
