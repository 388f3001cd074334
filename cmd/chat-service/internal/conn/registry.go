package conn

import "sync"

// Channel is one side of a live duplex connection. Send marshals v as a JSON
// frame; implementations must be safe for concurrent use.
type Channel interface {
	Send(v any) error
	Close() error
}

// Registry maps connected parties to their live channels. It is the single
// source of truth for "is X reachable right now" and is shared by every
// router operation, so all mutations are serialized internally.
type Registry struct {
	mu       sync.RWMutex
	channels map[PartyKey]Channel
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[PartyKey]Channel)}
}

// Register stores ch under key, replacing any prior entry. The prior channel
// becomes unreachable through the registry; closing it is its owner's job.
func (r *Registry) Register(key PartyKey, ch Channel) {
	r.mu.Lock()
	r.channels[key] = ch
	r.mu.Unlock()
}

// Unregister removes the entry for key; no-op when absent.
func (r *Registry) Unregister(key PartyKey) {
	r.mu.Lock()
	delete(r.channels, key)
	r.mu.Unlock()
}

// Lookup returns the current channel for key. Never blocks.
func (r *Registry) Lookup(key PartyKey) (Channel, bool) {
	r.mu.RLock()
	ch, ok := r.channels[key]
	r.mu.RUnlock()
	return ch, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
