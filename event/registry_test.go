package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(nil)
	var got []any
	r.On("counter.updated", func(payload any) error {
		got = append(got, payload)
		return nil
	})

	require.NoError(t, r.Dispatch("counter.updated", 1))
	require.NoError(t, r.Dispatch("counter.updated", "two"))

	assert.Equal(t, []any{1, "two"}, got)
}

func TestRegistryDispatchUnknownTopic(t *testing.T) {
	r := NewRegistry(nil)
	assert.NoError(t, r.Dispatch("missing", nil))
	assert.False(t, r.Has("missing"))
}

func TestRegistryOff(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	id := r.On("topic", func(any) error {
		calls++
		return nil
	})

	require.NoError(t, r.Dispatch("topic", nil))
	r.Off("topic", id)
	r.Off("topic", id)
	r.Off("other", id)
	require.NoError(t, r.Dispatch("topic", nil))

	assert.Equal(t, 1, calls)
	assert.True(t, r.Has("topic"))
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(nil)
	calls := 0
	r.On("a", func(any) error {
		calls++
		return nil
	})
	r.On("b", func(any) error { return nil })

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.False(t, r.Has("a"))
	assert.True(t, r.Has("b"))

	require.NoError(t, r.Dispatch("a", nil))
	assert.Equal(t, 0, calls)
}
