package event

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the order in which listeners fire.
type recorder struct {
	calls []string
	msgs  []int
}

func (r *recorder) listener(name string) Listener[int] {
	return func(message int) error {
		r.calls = append(r.calls, name)
		r.msgs = append(r.msgs, message)
		return nil
	}
}

func TestRegisterReturnsDistinctIDs(t *testing.T) {
	s := NewSubject[int]()
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := s.Register(func(int) error { return nil })
		assert.NotEqual(t, NilID, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, s.Len())
}

func TestRegisterUsesTimeOrderedUUIDs(t *testing.T) {
	id := NewSubject[int]().Register(func(int) error { return nil })
	assert.Equal(t, uuid.Version(7), uuid.UUID(id).Version())
}

func TestWithIDSupplier(t *testing.T) {
	var n byte
	supplier := func() ID {
		n++
		return ID{n}
	}
	s := NewSubject[int](WithIDSupplier(supplier))

	assert.Equal(t, ID{1}, s.Register(func(int) error { return nil }))
	assert.Equal(t, ID{2}, s.Register(func(int) error { return nil }))
	assert.Equal(t, []ID{{1}, {2}}, s.IDs())
}

func TestZeroValueSubject(t *testing.T) {
	var s Subject[int]
	rec := &recorder{}
	id := s.Register(rec.listener("a"))

	require.NoError(t, s.Notify(7))
	assert.True(t, s.Has(id))
	assert.Equal(t, []int{7}, rec.msgs)
}

func TestNotifyInRegistrationOrder(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		s.Register(rec.listener(name))
	}

	require.NoError(t, s.Notify(42))

	assert.Equal(t, names, rec.calls)
	assert.Equal(t, []int{42, 42, 42, 42}, rec.msgs)
}

func TestRemoveExcludesObserver(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	s.Register(rec.listener("a"))
	b := s.Register(rec.listener("b"))
	s.Register(rec.listener("c"))

	s.Remove(b)
	require.NoError(t, s.Notify(1))

	assert.Equal(t, []string{"a", "c"}, rec.calls)
	assert.False(t, s.Has(b))
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewSubject[int]()
	a := s.Register(func(int) error { return nil })
	b := s.Register(func(int) error { return nil })

	s.Remove(a)
	once := s.IDs()
	s.Remove(a)

	assert.Equal(t, once, s.IDs())
	assert.Equal(t, []ID{b}, s.IDs())

	// never registered
	s.Remove(NewID())
	assert.Equal(t, 1, s.Len())
}

func TestReregisterAppendsToEnd(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	a := s.Register(rec.listener("a"))
	s.Register(rec.listener("b"))

	require.NoError(t, s.Notify(1))
	s.Remove(a)
	got := s.Reregister(a, rec.listener("a"))
	require.NoError(t, s.Notify(2))

	assert.Equal(t, a, got)
	assert.Equal(t, []string{"a", "b", "b", "a"}, rec.calls)
	assert.Equal(t, []int{1, 1, 2, 2}, rec.msgs)
}

func TestReregisterKeepsDuplicates(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	a := s.Register(rec.listener("first"))
	s.Reregister(a, rec.listener("second"))

	require.NoError(t, s.Notify(1))
	assert.Equal(t, []string{"first", "second"}, rec.calls)

	s.Remove(a)
	assert.Equal(t, 0, s.Len())
}

func TestNotifyUsesSnapshot(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}

	var late ID
	var b ID
	s.Register(func(m int) error {
		rec.calls = append(rec.calls, "a")
		if m == 1 {
			s.Remove(b)
			late = s.Register(rec.listener("late"))
		}
		return nil
	})
	b = s.Register(rec.listener("b"))

	require.NoError(t, s.Notify(1))
	assert.Equal(t, []string{"a", "b"}, rec.calls)

	rec.calls = nil
	require.NoError(t, s.Notify(2))
	assert.Equal(t, []string{"a", "late"}, rec.calls)
	assert.Equal(t, []ID{s.IDs()[0], late}, s.IDs())
}

func TestNotifyStopsOnListenerError(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	boom := errors.New("boom")

	s.Register(rec.listener("a"))
	failing := s.Register(func(int) error { return boom })
	s.Register(rec.listener("c"))

	err := s.Notify(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), failing.String())
	assert.Equal(t, []string{"a"}, rec.calls)
}

func TestNotifyPanicPropagates(t *testing.T) {
	s := NewSubject[int]()
	s.Register(func(int) error { panic("listener panic") })

	assert.PanicsWithValue(t, "listener panic", func() {
		_ = s.Notify(1)
	})
}

func TestNotifyWithoutObservers(t *testing.T) {
	assert.NoError(t, NewSubject[string]().Notify("nobody"))
}

func TestNotifyOne(t *testing.T) {
	s := NewSubject[int]()
	rec := &recorder{}
	s.Register(rec.listener("a"))
	b := s.Register(rec.listener("b"))

	require.NoError(t, s.NotifyOne(b, 9))
	assert.Equal(t, []string{"b"}, rec.calls)
	assert.Equal(t, []int{9}, rec.msgs)

	require.NoError(t, s.NotifyOne(NewID(), 10))
	assert.Len(t, rec.calls, 1)
}

func TestLogsObserverCount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSubject[int](WithLogger(logger))

	a := s.Register(func(int) error { return nil })
	s.Register(func(int) error { return nil })
	s.Remove(a)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "observers=1")
	assert.Contains(t, lines[1], "observers=2")
	assert.Contains(t, lines[2], "observer removed")
	assert.Contains(t, lines[2], "removed=1")
	assert.Contains(t, lines[2], "observers=1")
	assert.NotContains(t, buf.String(), "entries=")
}
