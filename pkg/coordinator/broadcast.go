package coordinator

import (
	"sync"
	"time"
)

// Broadcaster sends tree snapshots to everyone from a single goroutine.
// Publish calls made while a pass is pending or running merge into one more pass,
// the snapshot is taken at send time so the last pass always has the latest tree.
type Broadcaster struct {
	send     func()
	debounce time.Duration

	wake chan struct{}
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewBroadcaster(send func(), debounce time.Duration) *Broadcaster {
	b := &Broadcaster{
		send:     send,
		debounce: debounce,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *Broadcaster) Publish() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Close stops the broadcaster, pending passes are discarded.
func (b *Broadcaster) Close() {
	b.once.Do(func() { close(b.done) })
	b.wg.Wait()
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
		}
		if b.debounce > 0 {
			t := time.NewTimer(b.debounce)
			select {
			case <-b.done:
				t.Stop()
				return
			case <-t.C:
			}
		}
		b.send()
	}
}
