package server

import (
	"sync"

	"github.com/finshield/muleguard/internal/pipeline"
)

// stageBroadcaster fans out pipeline stage events to any websocket clients
// connected to /stream while a run is in flight. It has no memory of
// completed runs; a client that connects between runs simply waits.
type stageBroadcaster struct {
	mu   sync.Mutex
	subs map[chan pipeline.StageEvent]struct{}
}

func newStageBroadcaster() *stageBroadcaster {
	return &stageBroadcaster{subs: make(map[chan pipeline.StageEvent]struct{})}
}

func (b *stageBroadcaster) subscribe() chan pipeline.StageEvent {
	ch := make(chan pipeline.StageEvent, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *stageBroadcaster) unsubscribe(ch chan pipeline.StageEvent) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// publish is passed directly as a pipeline.Run onStage callback. It never
// blocks: a slow or absent subscriber drops events rather than stalling the
// core pipeline.
func (b *stageBroadcaster) publish(event pipeline.StageEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
