package data

import (
	"fmt"
	"sort"
)

// slot holds one property value. A slot that was handed out through Handle is pinned and never
// reclaimed, so that handles taken before a removal resolve again once the same name is re-added.
// Unpinned slots are recycled when their property is removed.
type slot struct {
	name   string
	value  any
	live   bool
	pinned bool
}

// store is the implementation of the Store interface.
type store struct {
	name  string
	slots []slot
	index map[string]int32
	free  []int32

	added   map[string]*Signal[PropertyEvent]
	removed map[string]*Signal[PropertyEvent]
	changed map[string]*Signal[PropertyEvent]
}

// PropertyEvent is the payload of the per-property signals of a Store.
type PropertyEvent struct {
	// Store is the store whose property changed.
	Store Store

	// Name is the property name.
	Name string
}

// Store is a named bag of loosely typed properties with per-property change notification.
// Names are unique within one store. A Store backs one binding scope (an object, a renderer or
// pass, or the scene root) and is read by draw calls and signature compilation.
//
// A Store is not safe for concurrent mutation. Values may be read concurrently as long as no
// property is being added or removed.
type Store interface {
	// Name returns the diagnostic name of the store.
	//
	// Returns:
	//   - string: the store name
	Name() string

	// Has reports whether a property with the given name currently exists.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - bool: true if the property exists
	Has(name string) bool

	// Get returns the current value of a property.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - any: the value, or nil if absent
	//   - bool: true if the property exists
	Get(name string) (any, bool)

	// Handle returns a live handle to the property. The handle keeps resolving to whatever value
	// is stored under the name, including after the property is removed and re-added. Asking for
	// an absent name reserves its slot, so the handle observes the property once it is added.
	// A slot handed out this way stays reserved for the lifetime of the store.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - Handle: the handle to the property slot
	//   - bool: true if the property currently exists
	Handle(name string) (Handle, bool)

	// Set stores a value. Adding a new property fires PropertyAdded, replacing the value of an
	// existing one fires PropertyChanged.
	//
	// Parameters:
	//   - name: the property name
	//   - value: the value to store
	Set(name string, value any)

	// Remove deletes a property and fires PropertyRemoved.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - bool: true if the property existed
	Remove(name string) bool

	// Names returns the names of every existing property, sorted.
	//
	// Returns:
	//   - []string: the property names
	Names() []string

	// PropertyAdded returns the signal fired after the named property is added.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - *Signal[PropertyEvent]: the signal
	PropertyAdded(name string) *Signal[PropertyEvent]

	// PropertyRemoved returns the signal fired after the named property is removed.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - *Signal[PropertyEvent]: the signal
	PropertyRemoved(name string) *Signal[PropertyEvent]

	// PropertyChanged returns the signal fired after the value of an existing property is replaced.
	//
	// Parameters:
	//   - name: the property name
	//
	// Returns:
	//   - *Signal[PropertyEvent]: the signal
	PropertyChanged(name string) *Signal[PropertyEvent]
}

var _ SlotReader = &store{}

// NewStore creates an empty Store configured by the given options.
//
// Parameters:
//   - options: functional options applied to the store
//
// Returns:
//   - Store: the new store
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		index:   make(map[string]int32),
		added:   make(map[string]*Signal[PropertyEvent]),
		removed: make(map[string]*Signal[PropertyEvent]),
		changed: make(map[string]*Signal[PropertyEvent]),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *store) Name() string {
	return s.name
}

func (s *store) Has(name string) bool {
	i, ok := s.index[name]
	return ok && s.slots[i].live
}

func (s *store) Get(name string) (any, bool) {
	i, ok := s.index[name]
	if !ok || !s.slots[i].live {
		return nil, false
	}
	return s.slots[i].value, true
}

func (s *store) Handle(name string) (Handle, bool) {
	i := s.slotOf(name)
	s.slots[i].pinned = true
	return NewHandle(s, i), s.slots[i].live
}

func (s *store) SlotName(slot int32) string {
	return s.slots[slot].name
}

func (s *store) SlotValue(slot int32) (any, bool) {
	return s.slots[slot].value, s.slots[slot].live
}

func (s *store) Set(name string, value any) {
	i := s.slotOf(name)

	wasLive := s.slots[i].live
	s.slots[i].value = value
	s.slots[i].live = true

	if wasLive {
		s.emit(s.changed, name)
	} else {
		s.emit(s.added, name)
	}
}

func (s *store) slotOf(name string) int32 {
	i, ok := s.index[name]
	if ok {
		return i
	}
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[i] = slot{name: name}
	} else {
		i = int32(len(s.slots))
		s.slots = append(s.slots, slot{name: name})
	}
	s.index[name] = i
	return i
}

func (s *store) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok || !s.slots[i].live {
		return false
	}
	s.slots[i].value = nil
	s.slots[i].live = false
	if !s.slots[i].pinned {
		delete(s.index, name)
		s.free = append(s.free, i)
	}
	s.emit(s.removed, name)
	return true
}

func (s *store) Names() []string {
	names := make([]string, 0, len(s.index))
	for _, sl := range s.slots {
		if sl.live {
			names = append(names, sl.name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *store) PropertyAdded(name string) *Signal[PropertyEvent] {
	return signalFor(s.added, name)
}

func (s *store) PropertyRemoved(name string) *Signal[PropertyEvent] {
	return signalFor(s.removed, name)
}

func (s *store) PropertyChanged(name string) *Signal[PropertyEvent] {
	return signalFor(s.changed, name)
}

func (s *store) emit(signals map[string]*Signal[PropertyEvent], name string) {
	if sig, ok := signals[name]; ok {
		sig.Emit(PropertyEvent{Store: s, Name: name})
	}
}

func signalFor(signals map[string]*Signal[PropertyEvent], name string) *Signal[PropertyEvent] {
	sig, ok := signals[name]
	if !ok {
		sig = NewSignal[PropertyEvent]()
		signals[name] = sig
	}
	return sig
}

// SlotReader is implemented by stores that hand out Handles. Slot ids are chosen by the store and
// must stay bound to the same property name for as long as a Handle to them exists.
type SlotReader interface {
	Store

	// SlotName returns the property name of a slot.
	//
	// Parameters:
	//   - slot: the slot id
	//
	// Returns:
	//   - string: the property name
	SlotName(slot int32) string

	// SlotValue returns the value of a slot.
	//
	// Parameters:
	//   - slot: the slot id
	//
	// Returns:
	//   - any: the value, or nil if the property does not exist
	//   - bool: true if the property exists
	SlotValue(slot int32) (any, bool)
}

// Handle is a live reference to one property slot of a Store. It is a small value type that can be
// held across frames; reads always observe the slot's current value.
type Handle struct {
	owner SlotReader
	slot  int32
}

// NewHandle creates a handle to a slot of owner. Store implementations use it in Handle.
//
// Parameters:
//   - owner: the store owning the slot
//   - slot: the slot id
//
// Returns:
//   - Handle: the handle
func NewHandle(owner SlotReader, slot int32) Handle {
	return Handle{owner: owner, slot: slot}
}

// Valid reports whether the handle refers to a slot of some store.
//
// Returns:
//   - bool: false for the zero Handle
func (h Handle) Valid() bool {
	return h.owner != nil
}

// Live reports whether the referenced property currently exists.
//
// Returns:
//   - bool: true if the property exists
func (h Handle) Live() bool {
	if h.owner == nil {
		return false
	}
	_, live := h.owner.SlotValue(h.slot)
	return live
}

// Name returns the property name of the referenced slot.
//
// Returns:
//   - string: the property name, or "" for the zero Handle
func (h Handle) Name() string {
	if h.owner == nil {
		return ""
	}
	return h.owner.SlotName(h.slot)
}

// Store returns the store owning the referenced slot.
//
// Returns:
//   - Store: the owning store, or nil for the zero Handle
func (h Handle) Store() Store {
	if h.owner == nil {
		return nil
	}
	return h.owner
}

// Value returns the current value of the referenced property.
//
// Returns:
//   - any: the value, or nil if the property does not exist
func (h Handle) Value() any {
	if h.owner == nil {
		return nil
	}
	v, _ := h.owner.SlotValue(h.slot)
	return v
}

// Get reads a typed property value from a store.
//
// Parameters:
//   - s: the store to read from
//   - name: the property name
//
// Returns:
//   - T: the value
//   - error: ErrPropertyNotFound if absent, ErrPropertyType if the value is not a T
func Get[T any](s Store, name string) (T, error) {
	var zero T
	v, ok := s.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q in store %q", ErrPropertyNotFound, name, s.Name())
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q in store %q is %T, want %T", ErrPropertyType, name, s.Name(), v, zero)
	}
	return t, nil
}

// Value reads a typed value through a handle.
//
// Parameters:
//   - h: the handle
//
// Returns:
//   - T: the value
//   - bool: false if the property does not exist or is not a T
func Value[T any](h Handle) (T, bool) {
	t, ok := h.Value().(T)
	return t, ok
}
