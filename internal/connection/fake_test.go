package connection

import (
	"context"
	"sync"
)

// fakeSource is a StateSource driven by the test. Like grpc, a waiter may
// observe only the latest of several quick changes.
type fakeSource struct {
	mu      sync.Mutex
	state   State
	err     error
	changed chan struct{}
}

func newFakeSource(initial State) *fakeSource {
	return &fakeSource{state: initial, changed: make(chan struct{})}
}

func (f *fakeSource) set(s State) {
	f.mu.Lock()
	f.state = s
	close(f.changed)
	f.changed = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeSource) failWith(err error) {
	f.mu.Lock()
	f.err = err
	close(f.changed)
	f.changed = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeSource) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSource) WaitForStateChange(ctx context.Context, prior State) (State, error) {
	for {
		f.mu.Lock()
		s, err, ch := f.state, f.err, f.changed
		f.mu.Unlock()

		if err != nil {
			return prior, err
		}
		if s != prior {
			return s, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return prior, ctx.Err()
		}
	}
}
