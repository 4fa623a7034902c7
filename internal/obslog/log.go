// Package obslog provides the package-level structured logger shared by
// proc, broadcast, loadbalancer and executor.
//
// Logging is configured once, globally, via [SetLogger]; every other
// package in this module calls [Get] rather than taking a *logiface.Logger
// as a constructor parameter, the same cross-cutting-concern-as-package-
// global approach used for structured logging elsewhere in this
// codebase. A nil logger (the default, before SetLogger is ever called)
// is replaced transparently by a no-op logger, so nothing needs to guard
// every call site with a nil check.
package obslog

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

var (
	mu     sync.RWMutex
	logger = stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(discard{})))
)

// SetLogger replaces the global logger used by every package in this
// module. Passing nil restores a no-op logger.
func SetLogger(l *logiface.Logger[*stumpy.Event]) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(discard{})))
	}
	logger = l
}

// Get returns the current global logger.
func Get() *logiface.Logger[*stumpy.Event] {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
