// Package display provides CountDisplay, an observer that mirrors a
// counter's value and renders it to an output sink.
package display

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lemmego/observer/event"
)

// Subject is the part of a count subject a display needs.
type Subject interface {
	Register(listener event.Listener[int]) event.ID
	Reregister(id event.ID, listener event.Listener[int]) event.ID
	Remove(id event.ID)
	Has(id event.ID) bool
}

// CountDisplay keeps the last count it received while registered. After
// Unregister the value is frozen; Register does not catch it up, only the
// next broadcast does. Whether the display is registered is read from the
// subject, so a Remove made directly on the subject is seen too.
type CountDisplay struct {
	subject Subject
	id      event.ID
	count   int

	name   string
	sink   io.Writer
	logger *slog.Logger
}

type Option func(*CountDisplay)

// WithSink sets where Display writes. Defaults to os.Stdout; a nil
// writer is ignored.
func WithSink(w io.Writer) Option {
	return func(d *CountDisplay) {
		if w != nil {
			d.sink = w
		}
	}
}

// WithName prefixes every rendered line with name.
func WithName(name string) Option {
	return func(d *CountDisplay) {
		d.name = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *CountDisplay) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a display bound to subject and registers it under a fresh
// identifier.
func New(subject Subject, opts ...Option) *CountDisplay {
	d := &CountDisplay{
		subject: subject,
		sink:    os.Stdout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.id = subject.Register(d.Update)
	d.logger.Debug("display created", "name", d.name, "id", d.id.String())
	return d
}

// Update is the callback registered with the subject.
func (d *CountDisplay) Update(count int) error {
	d.count = count
	return d.Display()
}

// Display writes the mirrored count to the sink.
func (d *CountDisplay) Display() error {
	var err error
	if d.name == "" {
		_, err = fmt.Fprintln(d.sink, d.count)
	} else {
		_, err = fmt.Fprintf(d.sink, "%s: %d\n", d.name, d.count)
	}
	if err != nil {
		return fmt.Errorf("display %s: %w", d.id, err)
	}
	return nil
}

// Unregister detaches the display from its subject.
func (d *CountDisplay) Unregister() {
	if !d.Registered() {
		return
	}
	d.subject.Remove(d.id)
	d.logger.Debug("display unregistered", "name", d.name, "id", d.id.String(), "count", d.count)
}

// Register reattaches the display under its original identifier. Missed
// broadcasts are not replayed.
func (d *CountDisplay) Register() {
	if d.Registered() {
		return
	}
	d.subject.Reregister(d.id, d.Update)
	d.logger.Debug("display registered", "name", d.name, "id", d.id.String(), "count", d.count)
}

func (d *CountDisplay) Count() int {
	return d.count
}

func (d *CountDisplay) ID() event.ID {
	return d.id
}

// Registered reports whether the subject currently holds an entry under
// the display's identifier.
func (d *CountDisplay) Registered() bool {
	return d.subject.Has(d.id)
}

func (d *CountDisplay) Name() string {
	return d.name
}
