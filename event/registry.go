package event

import (
	"log/slog"
	"sync"
)

// Registry maps topic names to subjects. Subjects are created on the first
// On for a topic.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]*Subject[any]
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		mu:     sync.RWMutex{},
		topics: make(map[string]*Subject[any]),
		logger: logger,
	}
}

// On registers listener for topic and returns its identifier.
func (r *Registry) On(topic string, listener Listener[any]) ID {
	r.mu.Lock()
	subject, ok := r.topics[topic]
	if !ok {
		subject = NewSubject[any](WithLogger(r.logger.With("topic", topic)))
		r.topics[topic] = subject
	}
	r.mu.Unlock()

	return subject.Register(listener)
}

// Off removes the listener registered under id from topic.
func (r *Registry) Off(topic string, id ID) {
	if subject, ok := r.Get(topic); ok {
		subject.Remove(id)
	}
}

// Dispatch broadcasts payload to the listeners of topic. Dispatching to a
// topic nobody listens on does nothing.
func (r *Registry) Dispatch(topic string, payload any) error {
	subject, ok := r.Get(topic)
	if !ok {
		return nil
	}
	return subject.Notify(payload)
}

func (r *Registry) Get(topic string) (*Subject[any], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subject, ok := r.topics[topic]
	return subject, ok
}

// Remove forgets topic. Later dispatches to it do nothing until a new
// listener is added with On.
func (r *Registry) Remove(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subject, ok := r.topics[topic]
	if !ok {
		return false
	}
	delete(r.topics, topic)
	r.logger.Debug("topic removed", "topic", topic, "observers", subject.Len())
	return true
}

func (r *Registry) Has(topic string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.topics[topic]
	return exists
}
