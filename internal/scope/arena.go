// Package scope keeps named cancellation scopes for background tasks.
//
// Each background task (watchdog loop, telemetry reader, calibration
// session) owns one scope. A scope is live until it is cancelled, and a
// name can hold at most one live scope at a time.
package scope

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned once the arena has been closed.
var ErrClosed = errors.New("scope arena closed")

type entry struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (e *entry) live() bool {
	return e.ctx.Err() == nil
}

// Arena owns the scopes of one client. Every scope derives from the parent
// context given to NewArena.
type Arena struct {
	mu      sync.Mutex
	parent  context.Context
	scopes  map[string]*entry
	closed  bool
	created int64
}

// NewArena creates an arena whose scopes are children of parent.
func NewArena(parent context.Context) *Arena {
	return &Arena{
		parent: parent,
		scopes: make(map[string]*entry),
	}
}

// Open creates a new scope under name unless a live one already exists.
// The returned cancel func only ever cancels the scope created by this call,
// even if the name is reused later. Open returns ok=false when a live scope
// exists, and ErrClosed after Close.
func (a *Arena) Open(name string) (ctx context.Context, cancel context.CancelFunc, ok bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open(name)
}

func (a *Arena) open(name string) (ctx context.Context, cancel context.CancelFunc, ok bool, err error) {
	if a.closed {
		return nil, nil, false, ErrClosed
	}
	if e, exists := a.scopes[name]; exists && e.live() {
		return e.ctx, nil, false, nil
	}

	ctx, cancel = context.WithCancel(a.parent)
	a.scopes[name] = &entry{ctx: ctx, cancel: cancel}
	a.created++
	return ctx, cancel, true, nil
}

// Spawn is Open for a task tracked by wg. wg.Add(1) runs under the arena
// lock when a scope is created, so a Close followed by wg.Wait never races
// with a late start.
func (a *Arena) Spawn(name string, wg *sync.WaitGroup) (ctx context.Context, cancel context.CancelFunc, ok bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel, ok, err = a.open(name)
	if ok {
		wg.Add(1)
	}
	return ctx, cancel, ok, err
}

// Live reports whether name has a scope that is not cancelled.
func (a *Arena) Live(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.scopes[name]
	return ok && e.live()
}

// Cancel cancels the current scope of name, if any.
func (a *Arena) Cancel(name string) {
	a.mu.Lock()
	e, ok := a.scopes[name]
	a.mu.Unlock()
	if ok {
		e.cancel()
	}
}

// Close cancels every scope and refuses further Opens. Safe to call twice.
func (a *Arena) Close() {
	a.mu.Lock()
	a.closed = true
	scopes := make([]*entry, 0, len(a.scopes))
	for _, e := range a.scopes {
		scopes = append(scopes, e)
	}
	a.mu.Unlock()

	for _, e := range scopes {
		e.cancel()
	}
}

// Closed reports whether Close was called.
func (a *Arena) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Created returns how many scopes were opened over the arena's lifetime.
func (a *Arena) Created() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.created
}
