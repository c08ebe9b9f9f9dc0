// Package event provides a synchronous, ordered observer registry.
//
// A Subject keeps its registrations in insertion order and broadcasts a
// message to every registered listener on the caller's goroutine. Each
// registration is keyed by an ID, so an observer can detach and later
// reattach under the same identity.
package event

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ID identifies a registration. IDs handed out by Register are time-ordered
// UUIDs; callers should treat them as opaque.
type ID uuid.UUID

// NilID is never returned by the default supplier.
var NilID = ID(uuid.Nil)

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IDSupplier returns a fresh identifier on every call.
type IDSupplier func() ID

// NewID returns a version 7 UUID. It panics if the random source fails,
// like uuid.New.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()))
}

// Listener receives broadcast messages. A non-nil error aborts the rest of
// the broadcast it is part of.
type Listener[T any] func(message T) error

type entry[T any] struct {
	id       ID
	listener Listener[T]
}

// Subject holds registrations and broadcasts messages to them in
// registration order. The zero value is ready to use.
type Subject[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
	nextID  IDSupplier
	logger  *slog.Logger
}

type Option func(*options)

type options struct {
	supplier IDSupplier
	logger   *slog.Logger
}

// WithIDSupplier replaces the identifier source used by Register.
func WithIDSupplier(supplier IDSupplier) Option {
	return func(o *options) {
		if supplier != nil {
			o.supplier = supplier
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewSubject[T any](opts ...Option) *Subject[T] {
	o := &options{supplier: NewID, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return &Subject[T]{
		nextID: o.supplier,
		logger: o.logger,
	}
}

// Register appends listener under a fresh identifier and returns it.
func (s *Subject[T]) Register(listener Listener[T]) ID {
	supply := s.nextID
	if supply == nil {
		supply = NewID
	}
	return s.add(supply(), listener)
}

// Reregister appends listener under id. The id is used as-is: if another
// entry already carries it, both are kept and Remove drops both.
func (s *Subject[T]) Reregister(id ID, listener Listener[T]) ID {
	return s.add(id, listener)
}

func (s *Subject[T]) add(id ID, listener Listener[T]) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Always allocate: a broadcast in progress may be ranging over the old slice.
	next := make([]entry[T], len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	s.entries = append(next, entry[T]{id: id, listener: listener})

	s.log().Debug("observer registered", "id", id.String(), "observers", len(s.entries))
	return id
}

// Remove drops every entry registered under id. Unknown ids are ignored.
func (s *Subject[T]) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]entry[T], 0, len(s.entries))
	for _, e := range s.entries {
		if e.id != id {
			next = append(next, e)
		}
	}
	if removed := len(s.entries) - len(next); removed > 0 {
		s.log().Debug("observer removed", "id", id.String(), "removed", removed, "observers", len(next))
	}
	s.entries = next
}

// Notify calls every registered listener in order with message. The set of
// listeners is fixed when Notify is called; registrations made by a
// listener take effect from the next broadcast. The first listener error
// stops the broadcast and is returned.
func (s *Subject[T]) Notify(message T) error {
	return s.broadcast(s.snapshot(), message)
}

// NotifyOne delivers message only to the entries registered under id. It
// lets a caller hand current state to an observer that just (re)joined.
func (s *Subject[T]) NotifyOne(id ID, message T) error {
	var targets []entry[T]
	for _, e := range s.snapshot() {
		if e.id == id {
			targets = append(targets, e)
		}
	}
	return s.broadcast(targets, message)
}

func (s *Subject[T]) broadcast(entries []entry[T], message T) error {
	s.log().Debug("notifying observers", "observers", len(entries))
	for _, e := range entries {
		if err := e.listener(message); err != nil {
			return fmt.Errorf("notify observer %s: %w", e.id, err)
		}
	}
	return nil
}

func (s *Subject[T]) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

func (s *Subject[T]) snapshot() []entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Len returns the number of registered entries.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IDs returns the registered identifiers in notification order.
func (s *Subject[T]) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.id
	}
	return ids
}

func (s *Subject[T]) Has(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.id == id {
			return true
		}
	}
	return false
}
