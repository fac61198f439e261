package fleks

import "github.com/rotisserie/eris"

// HolderOf returns the holder for T in w, creating it on first use.
func HolderOf[T any](w *World) *Holder[T] {
	return holderOf[T](w.components)
}

// Set attaches c to e, replacing any T e already has.
//
// A replace fires the remove hooks for the old value before the add hooks
// for c. The old value is detached first and e is checked again afterwards:
// when a remove hook destroyed e, c is not written and ErrEntityNotAlive is
// returned, so a recycled ID never inherits it.
//
// If T is a tag, the first value ever set is shared by every entity and c
// only marks presence.
//
// Parameters:
//   - w: The World that owns e.
//   - e: A live entity.
//   - c: The value to attach. The pointer is stored as is; a nil c detaches T.
//
// Returns:
//   - ErrEntityNotAlive if e is removed, stale, being torn down, or was
//     destroyed by a hook during the replace.
func Set[T any](w *World, e Entity, c *T) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	h := HolderOf[T](w)
	if c != nil && h.Contains(e) {
		if err := w.detach(e, h); err != nil {
			return err
		}
	}
	h.Set(e, c)
	return nil
}

// Get returns e's T. It fails with ErrComponentNotFound when e has none and
// with ErrEntityNotAlive for removed or stale entities. Reads keep working
// from remove hooks while e is being torn down.
func Get[T any](w *World, e Entity) (*T, error) {
	if !w.entities.isAlive(e) {
		return nil, eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	return HolderOf[T](w).Get(e)
}

// GetOrNil returns e's T, or nil if e is not alive or has none.
func GetOrNil[T any](w *World, e Entity) *T {
	if !w.entities.isAlive(e) {
		return nil
	}
	return HolderOf[T](w).GetOrNil(e)
}

// Has reports whether a live e has a T.
func Has[T any](w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	return HolderOf[T](w).Contains(e)
}

// Remove detaches T from e. Removing a T that e does not have does nothing.
func Remove[T any](w *World, e Entity) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	h := HolderOf[T](w)
	if int(e.ID) >= h.Capacity() {
		// never set on an ID this high, nothing to remove
		return nil
	}
	return h.Remove(e)
}
