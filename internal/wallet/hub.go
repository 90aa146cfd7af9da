package wallet

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jask/nftdesk/internal/gateway"
)

// Hub fans sync events out to subscribers. Publish never blocks: a
// subscriber that falls behind loses events rather than stalling the wallet.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
	buffer int
}

// NewHub returns a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: map[int]*subscription{}, buffer: buffer}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() gateway.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &subscription{hub: h, id: h.nextID, ch: make(chan gateway.SyncEvent, h.buffer)}
	h.subs[s.id] = s
	log.Debug().Int("subscriber", s.id).Msg("sync subscription opened")
	return s
}

// Publish delivers ev to every current subscriber.
func (h *Hub) Publish(ev gateway.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			log.Warn().Int("subscriber", s.id).Str("event", string(ev.Type)).Msg("sync subscriber full, dropping event")
		}
	}
}

// Len reports the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

type subscription struct {
	hub  *Hub
	id   int
	ch   chan gateway.SyncEvent
	once sync.Once
}

func (s *subscription) Events() <-chan gateway.SyncEvent { return s.ch }

// Close unregisters the subscriber and closes its channel. Publish holds the
// hub lock while sending, so nothing is sent after Close returns.
func (s *subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
		close(s.ch)
		log.Debug().Int("subscriber", s.id).Msg("sync subscription closed")
	})
}
