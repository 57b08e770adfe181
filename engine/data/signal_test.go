package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalConnectDisconnect(t *testing.T) {
	sig := NewSignal[int]()
	var got []int

	sub := sig.Connect(func(v int) { got = append(got, v) })
	sig.Emit(1)
	assert.Equal(t, 1, sig.Len())

	sub.Disconnect()
	sub.Disconnect()
	assert.False(t, sub.Connected())
	sig.Emit(2)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, sig.Len())
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	sig := NewSignal[string]()
	var calls []string

	var first *Subscription
	first = sig.Connect(func(string) {
		calls = append(calls, "first")
		first.Disconnect()
	})
	sig.Connect(func(string) { calls = append(calls, "second") })

	sig.Emit("x")
	sig.Emit("y")

	assert.Equal(t, []string{"first", "second", "second"}, calls)
	assert.Equal(t, 1, sig.Len())
}

func TestSignalConnectDuringEmit(t *testing.T) {
	sig := NewSignal[int]()
	count := 0
	sig.Connect(func(int) {
		if count == 0 {
			sig.Connect(func(int) { count += 10 })
		}
		count++
	})

	sig.Emit(0)
	assert.Equal(t, 1, count)
	sig.Emit(0)
	assert.Equal(t, 12, count)
}

func TestSubscriptionsDisconnectAll(t *testing.T) {
	a, b := NewSignal[int](), NewSignal[int]()
	var subs Subscriptions
	subs.Add(a.Connect(func(int) {}))
	subs.Add(b.Connect(func(int) {}))

	subs.DisconnectAll()
	assert.Empty(t, subs)
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Disconnect)
}
