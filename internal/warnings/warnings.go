// Package warnings is the advisory notification channel of the
// engine. Operations that complete correctly but through a degraded
// path (densifying fallbacks, mismatched fill values during concat)
// emit a warning here; emission never alters control flow and never
// blocks the emitting operation.
package warnings

import (
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a warning.
type Kind int

const (
	// Performance flags an operation that completed through a slower,
	// memory-hungry fallback.
	Performance Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Performance:
		return "performance"
	default:
		return "unknown"
	}
}

// Warning is an advisory notice emitted by an operation.
type Warning struct {
	Kind    Kind
	Op      string
	Message string
}

// Handler receives emitted warnings. Handlers must not block.
type Handler func(Warning)

var (
	mu      sync.RWMutex
	handler Handler = logHandler
	logger          = zap.NewNop()
)

// SetHandler replaces the warning handler and returns the previous
// one. A nil handler restores the default logging handler.
func SetHandler(h Handler) Handler {
	mu.Lock()
	defer mu.Unlock()
	prev := handler
	if h == nil {
		h = logHandler
	}
	handler = h
	return prev
}

// SetLogger replaces the logger used by the default handler.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Warn emits an advisory warning through the registered handler.
func Warn(kind Kind, op, message string) {
	mu.RLock()
	h := handler
	mu.RUnlock()
	h(Warning{Kind: kind, Op: op, Message: message})
}

func logHandler(w Warning) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(w.Message,
		zap.String("kind", w.Kind.String()),
		zap.String("op", w.Op))
}
