package data

// listener is one connected callback of a Signal. fn is cleared on disconnect so that removals
// during an Emit never shift the slice being iterated.
type listener[T any] struct {
	fn func(T)
}

// Signal is a synchronous observer list with typed payloads. Callbacks run on the emitting
// goroutine, in connection order, before Emit returns. A Signal is not safe for concurrent use.
type Signal[T any] struct {
	listeners   []*listener[T]
	dispatching int
	stale       bool
}

// Subscription is the owned handle of a connected callback. The owner releases it with Disconnect;
// there is no implicit release when the handle becomes unreachable.
type Subscription struct {
	release func()
}

// NewSignal creates an empty signal.
//
// Returns:
//   - *Signal[T]: the new signal
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers fn to be called on every Emit until the returned subscription is disconnected.
// A callback connected during an Emit is first called on the next Emit.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - *Subscription: the handle that disconnects fn
func (s *Signal[T]) Connect(fn func(T)) *Subscription {
	l := &listener[T]{fn: fn}
	s.listeners = append(s.listeners, l)

	return &Subscription{release: func() { s.disconnect(l) }}
}

// Emit calls every connected callback with v.
//
// Parameters:
//   - v: the event payload
func (s *Signal[T]) Emit(v T) {
	s.dispatching++
	n := len(s.listeners)
	for i := 0; i < n; i++ {
		if fn := s.listeners[i].fn; fn != nil {
			fn(v)
		}
	}
	s.dispatching--

	if s.dispatching == 0 && s.stale {
		s.compact()
	}
}

// Len returns the number of connected callbacks.
//
// Returns:
//   - int: the number of active listeners
func (s *Signal[T]) Len() int {
	n := 0
	for _, l := range s.listeners {
		if l.fn != nil {
			n++
		}
	}
	return n
}

func (s *Signal[T]) disconnect(l *listener[T]) {
	if l.fn == nil {
		return
	}
	l.fn = nil
	if s.dispatching > 0 {
		s.stale = true
		return
	}
	s.compact()
}

func (s *Signal[T]) compact() {
	kept := s.listeners[:0]
	for _, l := range s.listeners {
		if l.fn != nil {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(s.listeners); i++ {
		s.listeners[i] = nil
	}
	s.listeners = kept
	s.stale = false
}

// Disconnect releases the subscription. Calling it more than once, or on a nil subscription, is a no-op.
func (sub *Subscription) Disconnect() {
	if sub == nil || sub.release == nil {
		return
	}
	release := sub.release
	sub.release = nil
	release()
}

// Connected reports whether the subscription has not been disconnected yet.
//
// Returns:
//   - bool: true while the callback is still registered
func (sub *Subscription) Connected() bool {
	return sub != nil && sub.release != nil
}

// Subscriptions is a set of owned subscriptions released together, typically at teardown.
type Subscriptions []*Subscription

// Add appends sub to the set.
//
// Parameters:
//   - sub: the subscription to own
func (subs *Subscriptions) Add(sub *Subscription) {
	*subs = append(*subs, sub)
}

// DisconnectAll disconnects every subscription in the set and empties it.
func (subs *Subscriptions) DisconnectAll() {
	for _, sub := range *subs {
		sub.Disconnect()
	}
	*subs = (*subs)[:0]
}
