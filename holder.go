package fleks

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// WildcardHolder is the type-erased view of a Holder. It is handed to code
// that only knows a ComponentID, such as entity teardown and snapshot
// restoration. SetAny is the only place a value is cast back to its static
// type.
type WildcardHolder interface {
	ID() ComponentID
	Name() string
	IsTag() bool
	Capacity() int
	Contains(e Entity) bool
	Remove(e Entity) error
	GetAny(e Entity) (any, bool)
	SetAny(e Entity, v any) error

	validate(v any) error
	encode(e Entity) ([]byte, error)
	decode(e Entity, data []byte) error
}

// Holder binds the storage of one component or tag type to the runtime
// context that receives its lifecycle notifications.
type Holder[T any] struct {
	ctx   Context
	store storage[T]
	name  string
	id    ComponentID
	tag   bool
}

var _ WildcardHolder = (*Holder[struct{}])(nil)

func newHolder[T any](ctx Context, id ComponentID, capacity int, tag bool) *Holder[T] {
	h := &Holder[T]{
		ctx:  ctx,
		id:   id,
		name: reflect.TypeFor[T]().String(),
		tag:  tag,
	}
	if tag {
		h.store = newTagStorage[T](capacity)
	} else {
		h.store = newDenseStorage[T](capacity)
	}
	return h
}

// ID returns the type identity this holder is bound to.
func (h *Holder[T]) ID() ComponentID { return h.id }

// Name returns the registered name of T.
func (h *Holder[T]) Name() string { return h.name }

// IsTag reports whether T is stored as a tag.
func (h *Holder[T]) IsTag() bool { return h.tag }

// Capacity returns the number of entity slots currently covered.
func (h *Holder[T]) Capacity() int { return h.store.size() }

// Set attaches c to e.
//
// The storage grows to max(capacity*2, e.ID+1) when e lies beyond it, so a
// single far ID costs one reallocation rather than a series of doublings.
// If e already has a T, the old value is cleared and the remove
// notification fires before c is written and the add notification fires,
// so a replace is always observed as remove then add. When a remove hook
// attaches another T to e, that value is cleared and notified in turn
// before c is written: every add is matched by a remove. A hook that
// unconditionally re-attaches T on every removal never lets Set finish.
//
// A nil c clears the slot like Remove would, without growing the storage.
//
// Parameters:
//   - e: The entity whose slot is written. The holder does not check
//     liveness; the World does that before calling in.
//   - c: The value to store. The holder keeps the pointer, it does not copy.
//     For tags only presence is recorded once the shared value exists.
func (h *Holder[T]) Set(e Entity, c *T) {
	idx := int(e.ID)
	if c == nil {
		if idx < h.store.size() {
			h.clear(e)
		}
		return
	}
	if size := h.store.size(); idx >= size {
		h.store.resize(grownCapacity(size, idx))
	}
	for h.store.get(idx) != nil {
		h.clear(e)
	}
	h.store.set(idx, c)
	h.ctx.ComponentAdded(e, h.id, c)
}

// Remove detaches T from e. The slot is cleared before the remove
// notification fires so hooks already observe the absence. Removing a
// component e does not have is a no-op.
func (h *Holder[T]) Remove(e Entity) error {
	if int(e.ID) >= h.store.size() {
		return eris.Wrapf(ErrOutOfRange, "entity %d outside %s holder capacity %d", e.ID, h.name, h.store.size())
	}
	h.clear(e)
	return nil
}

// clear empties e's slot and notifies if it held a value. e must be in range.
func (h *Holder[T]) clear(e Entity) {
	idx := int(e.ID)
	existing := h.store.get(idx)
	if existing == nil {
		return
	}
	h.store.set(idx, nil)
	h.ctx.ComponentRemoved(e, h.id, existing)
}

// Get returns e's T or ErrComponentNotFound.
func (h *Holder[T]) Get(e Entity) (*T, error) {
	c := h.store.getOrNil(int(e.ID))
	if c == nil {
		return nil, eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", e.ID, h.name)
	}
	return c, nil
}

// GetOrNil returns e's T, or nil when absent or out of range.
func (h *Holder[T]) GetOrNil(e Entity) *T {
	return h.store.getOrNil(int(e.ID))
}

// Contains reports whether e currently has a T.
func (h *Holder[T]) Contains(e Entity) bool {
	return h.store.getOrNil(int(e.ID)) != nil
}

// GetAny returns e's T as an untyped value.
func (h *Holder[T]) GetAny(e Entity) (any, bool) {
	c := h.store.getOrNil(int(e.ID))
	if c == nil {
		return nil, false
	}
	return c, true
}

// SetAny accepts either a T or a non-nil *T and forwards it to Set. Any
// other value is rejected with ErrTypeMismatch.
func (h *Holder[T]) SetAny(e Entity, v any) error {
	c, err := h.cast(v)
	if err != nil {
		return eris.Wrapf(err, "entity %d", e.ID)
	}
	h.Set(e, c)
	return nil
}

func (h *Holder[T]) validate(v any) error {
	_, err := h.cast(v)
	return err
}

// cast is the only place an untyped value is turned back into a *T.
func (h *Holder[T]) cast(v any) (*T, error) {
	switch c := v.(type) {
	case *T:
		if c == nil {
			return nil, eris.Wrapf(ErrTypeMismatch, "nil %s", h.name)
		}
		return c, nil
	case T:
		return &c, nil
	default:
		return nil, eris.Wrapf(ErrTypeMismatch, "cannot store %T in %s holder", v, h.name)
	}
}

func (h *Holder[T]) encode(e Entity) ([]byte, error) {
	c, err := h.Get(e)
	if err != nil {
		return nil, err
	}
	return Encode(c)
}

func (h *Holder[T]) decode(e Entity, data []byte) error {
	c, err := Decode[T](data)
	if err != nil {
		return eris.Wrapf(err, "decoding %s for entity %d", h.name, e.ID)
	}
	h.Set(e, &c)
	return nil
}
