package coordinator

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBroadcasterCoalesces(t *testing.T) {
	var n atomic.Int32
	release := make(chan struct{})
	b := NewBroadcaster(func() { n.Add(1); <-release }, 0)
	defer b.Close()

	b.Publish()
	eventually(t, "first pass", func() bool { return n.Load() == 1 })
	for range 100 {
		b.Publish()
	}
	close(release)

	eventually(t, "second pass", func() bool { return n.Load() == 2 })
	time.Sleep(50 * time.Millisecond)
	if n.Load() != 2 {
		t.Errorf("bursts should merge into one pass, got %v passes", n.Load())
	}
}

func TestBroadcasterDebounce(t *testing.T) {
	var n atomic.Int32
	b := NewBroadcaster(func() { n.Add(1) }, 100*time.Millisecond)
	defer b.Close()

	for range 10 {
		b.Publish()
	}
	eventually(t, "debounced pass", func() bool { return n.Load() == 1 })
	time.Sleep(150 * time.Millisecond)
	if n.Load() != 1 {
		t.Errorf("expected one pass, got %v", n.Load())
	}
}

func TestBroadcasterClose(t *testing.T) {
	var n atomic.Int32
	b := NewBroadcaster(func() { n.Add(1) }, time.Hour)
	b.Publish()
	b.Close()
	b.Close()
	b.Publish()
	if n.Load() != 0 {
		t.Errorf("pending pass should be discarded")
	}
}
