package scope

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestArena_OpenIsIdempotentWhileLive(t *testing.T) {
	a := NewArena(context.Background())

	ctx1, cancel1, ok, err := a.Open("gaze")
	if err != nil || !ok {
		t.Fatalf("Open() = (ok %v, err %v), want (true, nil)", ok, err)
	}

	ctx2, cancel2, ok, err := a.Open("gaze")
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	if ok {
		t.Error("second Open() ok = true, want false while first scope is live")
	}
	if cancel2 != nil {
		t.Error("second Open() returned a cancel func")
	}
	if ctx2 != ctx1 {
		t.Error("second Open() should return the live scope")
	}
	if a.Created() != 1 {
		t.Errorf("Created() = %d, want 1", a.Created())
	}

	cancel1()
	if a.Live("gaze") {
		t.Error("Live() = true after cancel, want false")
	}

	_, cancel3, ok, _ := a.Open("gaze")
	if !ok {
		t.Fatal("Open() after cancel ok = false, want true")
	}
	defer cancel3()
	if a.Created() != 2 {
		t.Errorf("Created() = %d, want 2", a.Created())
	}
}

func TestArena_StaleCancelLeavesNewScope(t *testing.T) {
	a := NewArena(context.Background())

	_, cancelOld, _, _ := a.Open("trigger")
	cancelOld()

	_, cancelNew, ok, _ := a.Open("trigger")
	if !ok {
		t.Fatal("expected a new scope")
	}
	defer cancelNew()

	cancelOld()
	if !a.Live("trigger") {
		t.Error("cancelling a stale scope must not end the replacement")
	}
}

func TestArena_ScopesAreIndependent(t *testing.T) {
	a := NewArena(context.Background())

	_, cancelGaze, _, _ := a.Open("gaze")
	_, cancelPos, _, _ := a.Open("positioning")
	defer cancelPos()

	cancelGaze()

	if a.Live("gaze") {
		t.Error("gaze still live")
	}
	if !a.Live("positioning") {
		t.Error("positioning cancelled by unrelated scope")
	}
}

func TestArena_Close(t *testing.T) {
	a := NewArena(context.Background())

	ctx, _, _, _ := a.Open("watchdog")
	a.Close()

	if ctx.Err() == nil {
		t.Error("expected scope cancelled by Close")
	}
	if _, _, _, err := a.Open("watchdog"); !errors.Is(err, ErrClosed) {
		t.Errorf("Open() after Close error = %v, want ErrClosed", err)
	}
	a.Close()
}

func TestArena_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	a := NewArena(parent)

	_, _, _, _ = a.Open("calibration")
	cancel()

	if a.Live("calibration") {
		t.Error("scope outlived its parent")
	}
}

func TestArena_SpawnTracksTasks(t *testing.T) {
	a := NewArena(context.Background())
	var wg sync.WaitGroup

	ctx, cancel, ok, err := a.Spawn("gaze", &wg)
	if err != nil || !ok {
		t.Fatalf("Spawn() = %v, %v, want true, nil", ok, err)
	}
	go func() {
		defer wg.Done()
		defer cancel()
		<-ctx.Done()
	}()

	// A live scope adds nothing to wg.
	if _, _, ok, _ := a.Spawn("gaze", &wg); ok {
		t.Fatal("Spawn() while live = true")
	}

	a.Close()
	if _, _, ok, err := a.Spawn("positioning", &wg); ok || !errors.Is(err, ErrClosed) {
		t.Errorf("Spawn() after Close = %v, %v, want false, ErrClosed", ok, err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after Close")
	}
}

func TestArena_SpawnRacingClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := NewArena(context.Background())
		var wg sync.WaitGroup

		var starters sync.WaitGroup
		for _, name := range []string{"gaze", "positioning", "trigger", "watchdog"} {
			starters.Add(1)
			go func() {
				defer starters.Done()
				ctx, cancel, ok, _ := a.Spawn(name, &wg)
				if !ok {
					return
				}
				go func() {
					defer wg.Done()
					defer cancel()
					<-ctx.Done()
				}()
			}()
		}

		a.Close()
		wg.Wait()
		starters.Wait()

		// Every task admitted before Close has ended; none after.
		for _, name := range []string{"gaze", "positioning", "trigger", "watchdog"} {
			if a.Live(name) {
				t.Fatalf("scope %s live after Close", name)
			}
		}
	}
}
