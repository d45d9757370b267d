package event

import (
	"sync"
	"testing"
)

func TestSink_SubscribeUnsubscribe(t *testing.T) {
	s := NewSink[int]()

	var got []int
	id := s.Subscribe(func(v int) { got = append(got, v) })
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Publish(1)
	s.Publish(2)

	if !s.Unsubscribe(id) {
		t.Error("Unsubscribe() = false, want true")
	}
	if s.Unsubscribe(id) {
		t.Error("second Unsubscribe() = true, want false")
	}

	s.Publish(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}
}

func TestSink_FanOut(t *testing.T) {
	s := NewSink[string]()

	counts := make([]int, 3)
	for i := range counts {
		s.Subscribe(func(string) { counts[i]++ })
	}

	s.Publish("a")
	s.Publish("b")

	for i, c := range counts {
		if c != 2 {
			t.Errorf("handler %d called %d times, want 2", i, c)
		}
	}
}

func TestSink_OrderPerPublisher(t *testing.T) {
	s := NewSink[int]()

	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	for i := 0; i < 100; i++ {
		s.Publish(i)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestSink_UnsubscribeDuringPublish(t *testing.T) {
	s := NewSink[int]()

	var calls int
	self := s.Subscribe(func(int) { calls++ })
	s.Subscribe(func(int) { s.Unsubscribe(self) })

	// Must not deadlock.
	s.Publish(1)
	s.Publish(2)

	if calls > 1 {
		t.Errorf("calls = %d, want at most 1", calls)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSink_ConcurrentSubscribe(t *testing.T) {
	s := NewSink[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Subscribe(func(int) {})
			s.Publish(1)
			s.Unsubscribe(id)
		}()
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
