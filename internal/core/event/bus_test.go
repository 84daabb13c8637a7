package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }
type pong struct{ S string }

func TestPublishDeliversImmediatelyInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(p ping) { got = append(got, "a") })
	Subscribe(b, func(p ping) { got = append(got, "b") })
	Subscribe(b, func(p pong) { got = append(got, "pong") })

	Publish(b, ping{N: 1})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEmitIsReadableAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{N: 1})
	Emit(b, ping{N: 2})
	require.Equal(t, 2, b.Pending())

	b.DispatchAll()
	assert.Empty(t, got, "events must not be delivered before the swap")

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	// Front buffer is drained once dispatched.
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := Subscribe(b, func(ping) { calls++ })
	Publish(b, ping{})
	sub.Unsubscribe()
	sub.Unsubscribe()
	Publish(b, ping{})
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeFromInsideHandler(t *testing.T) {
	b := NewBus()
	calls := 0
	var sub Subscription
	sub = Subscribe(b, func(ping) {
		calls++
		sub.Unsubscribe()
	})
	Publish(b, ping{})
	Publish(b, ping{})
	assert.Equal(t, 1, calls)
}

func TestOnce(t *testing.T) {
	b := NewBus()
	once, always := 0, 0
	Once(b, func(pong) { once++ })
	Subscribe(b, func(pong) { always++ })

	Publish(b, pong{S: "x"})
	Publish(b, pong{S: "y"})
	assert.Equal(t, 1, once)
	assert.Equal(t, 2, always)
}
