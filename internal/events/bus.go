// Package events is the publish/subscribe channel that decouples game state
// changes from the pages and streams reacting to them.
package events

import "sync"

// Topic names a stream of events on a Bus.
type Topic string

// Topics emitted and consumed by the game core.
const (
	PlayerAction   Topic = "playerAction"   // payload: string
	ActionStart    Topic = "actionStart"    // payload: string
	ActionComplete Topic = "actionComplete" // payload: game.CombatResult
	Error          Topic = "error"          // payload: error
	StateChanged   Topic = "stateChanged"   // payload: game.GameState
	GameStart      Topic = "gameStart"      // payload: game.Config
)

// Handler receives the payload of an emitted event. A nil Handler is a no-op.
type Handler func(payload any)

type registration struct {
	id uint64
	h  Handler
}

// Bus dispatches events synchronously to the handlers registered for a topic.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Topic][]registration
}

func NewBus() *Bus {
	return &Bus{listeners: map[Topic][]registration{}}
}

// Subscribe registers h for topic. Handlers run in registration order. The
// returned func removes exactly this registration; calling it again does nothing.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[topic] = append(b.listeners[topic], registration{id: id, h: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		regs := b.listeners[topic]
		for i := range regs {
			if regs[i].id == id {
				b.listeners[topic] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler registered for topic at the time of the call, on
// the caller's goroutine. Panics raised by a handler are not recovered.
func (b *Bus) Emit(topic Topic, payload any) {
	b.mu.Lock()
	regs := b.listeners[topic]
	if len(regs) == 0 {
		b.mu.Unlock()
		return
	}
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.Unlock()

	for _, r := range snapshot {
		if r.h != nil {
			r.h(payload)
		}
	}
}

// Len reports how many handlers are registered for topic.
func (b *Bus) Len(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[topic])
}
