package fleks

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World is the runtime context holders report to. It allocates entities,
// keeps a component mask per entity, dispatches lifecycle hooks and events,
// and keeps families up to date.
//
// A World is not safe for concurrent use: all mutation must happen on one
// goroutine at a time, hooks included.
type World struct {
	logger     *zerolog.Logger
	components *componentService
	resources  *Resources
	events     *EventBus
	masks      []ComponentMask
	families   []*Family
	dying      bitset.BitSet // entities being torn down
	hooks      hookTable
	entities   entityRegistry
	config     Config
}

var _ Context = (*World)(nil)

// NewWorld creates a World from DefaultConfig and the given options.
//
// Options run in order, so a later WithEntityCapacity overrides the capacity
// of an earlier WithConfig. Entity IDs, versions and masks for the initial
// capacity are allocated up front; holders are only allocated on first use
// of their type and are sized to the capacity at that moment.
//
// Parameters:
//   - opts: Functional options such as WithConfig, WithEntityCapacity,
//     WithLogger or WithPrettyLog.
//
// Returns:
//   - The new World, or an error when the resulting Config is invalid
//     (negative capacity, unknown log level).
func NewWorld(opts ...Option) (*World, error) {
	w := &World{
		config:    DefaultConfig(),
		resources: &Resources{},
		events:    &EventBus{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.config.validate(); err != nil {
		return nil, err
	}
	if w.logger == nil {
		logger := w.config.newLogger()
		w.logger = &logger
	}
	w.entities = newEntityRegistry(w.config.EntityCapacity)
	w.masks = make([]ComponentMask, w.config.EntityCapacity)
	w.components = newComponentService(w)
	w.logger.Debug().Int("entity_capacity", w.config.EntityCapacity).Msg("world created")
	return w, nil
}

// Capacity returns the size of the entity ID space. New holders are sized to it.
func (w *World) Capacity() int {
	return w.entities.capacity
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.entities.alive
}

// Logger returns the World logger.
func (w *World) Logger() *zerolog.Logger {
	return w.logger
}

// Events returns the bus the World publishes lifecycle events on.
func (w *World) Events() *EventBus {
	return w.events
}

// Resources returns the world's resource store, a type-keyed place for
// shared services that hooks and systems need to reach.
func (w *World) Resources() *Resources {
	return w.resources
}

// CreateEntity hands out a new entity with no components. The ID space
// doubles when exhausted.
func (w *World) CreateEntity() Entity {
	before := w.entities.capacity
	e := w.entities.create()
	if w.entities.capacity != before {
		w.logger.Debug().
			Int("old_capacity", before).
			Int("new_capacity", w.entities.capacity).
			Msg("entity capacity expanded")
	}
	m := w.maskOf(e)
	w.updateFamilies(e, m)
	Publish(w.events, EntityCreated{Entity: e})
	return e
}

// IsAlive reports whether e was created by w and has not been removed. An
// entity being torn down is no longer alive.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e) && !w.dying.Test(uint(e.ID))
}

// RemoveEntity detaches every component and tag from e, firing remove
// hooks for each, then frees its ID.
func (w *World) RemoveEntity(e Entity) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	w.dying.Set(uint(e.ID))
	defer w.dying.Clear(uint(e.ID))

	present := w.maskOf(e).Clone()
	for _, id := range present.IDs() {
		h, err := w.components.holderByIndex(int(id))
		if err != nil {
			return eris.Wrapf(err, "tearing down entity %d", e.ID)
		}
		if err := h.Remove(e); err != nil {
			return eris.Wrapf(err, "tearing down entity %d", e.ID)
		}
	}
	w.maskOf(e).clear()
	for _, f := range w.families {
		f.drop(e)
	}
	w.entities.kill(e)
	w.logger.Trace().Uint32("entity_id", e.ID).Int("components", present.Len()).Msg("entity removed")
	Publish(w.events, EntityRemoved{Entity: e})
	return nil
}

// RemoveAll removes every live entity.
func (w *World) RemoveAll() error {
	var alive []Entity
	w.entities.each(func(e Entity) { alive = append(alive, e) })
	for _, e := range alive {
		if !w.IsAlive(e) {
			continue
		}
		if err := w.RemoveEntity(e); err != nil {
			return err
		}
	}
	return nil
}

// Each calls fn for every live entity in ID order.
func (w *World) Each(fn func(e Entity)) {
	w.entities.each(fn)
}

// Mask returns a copy of the component mask of e.
func (w *World) Mask(e Entity) ComponentMask {
	if int(e.ID) >= len(w.masks) {
		return ComponentMask{}
	}
	return w.masks[e.ID].Clone()
}

// WildcardHolder returns the holder for id, creating it if needed. It is
// meant for code that only has an identity, such as snapshot restoration.
func (w *World) WildcardHolder(id ComponentID) (WildcardHolder, error) {
	return w.components.wildcardHolder(id)
}

// HolderByIndex returns an already materialized holder. Unknown indices
// fail with ErrOutOfRange.
func (w *World) HolderByIndex(index int) (WildcardHolder, error) {
	return w.components.holderByIndex(index)
}

// Holders returns the number of materialized holders.
func (w *World) Holders() int {
	return w.components.len()
}

// SetWildcard attaches an untyped value to e through the holder for id.
// The value must be a T or *T of the registered type, otherwise
// ErrTypeMismatch is returned and e keeps its current value. A replace
// follows the same rules as Set.
func (w *World) SetWildcard(e Entity, id ComponentID, v any) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	h, err := w.components.wildcardHolder(id)
	if err != nil {
		return err
	}
	if err := h.validate(v); err != nil {
		return eris.Wrapf(err, "entity %d", e.ID)
	}
	if h.Contains(e) {
		if err := w.detach(e, h); err != nil {
			return err
		}
	}
	return h.SetAny(e, v)
}

// detach removes the current value of h from e ahead of a replace and
// reports whether e survived the remove hooks.
func (w *World) detach(e Entity, h WildcardHolder) error {
	if err := h.Remove(e); err != nil {
		return err
	}
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d destroyed while replacing %s", e.ID, h.Name())
	}
	return nil
}

// ComponentAdded implements Context. A value written to an entity that is
// not alive, typically by a hook holding a Holder during teardown, is taken
// back out of its holder without any hook or event.
func (w *World) ComponentAdded(e Entity, id ComponentID, c any) {
	if !w.IsAlive(e) {
		w.reject(e, id)
		return
	}
	m := w.maskOf(e)
	m.set(id)
	w.updateFamilies(e, m)
	if hook, ok := c.(OnAdder); ok {
		hook.OnAdd(w, e)
	}
	fireHooks(w.hooks.add, w, e, id, c)
	Publish(w.events, ComponentAdded{Entity: e, Component: id})
}

// ComponentRemoved implements Context. Removals of values that were never
// announced through ComponentAdded are ignored.
func (w *World) ComponentRemoved(e Entity, id ComponentID, c any) {
	m := w.maskOf(e)
	if !m.Has(id) {
		return
	}
	m.unset(id)
	w.updateFamilies(e, m)
	if hook, ok := c.(OnRemover); ok {
		hook.OnRemove(w, e)
	}
	fireHooks(w.hooks.remove, w, e, id, c)
	Publish(w.events, ComponentRemoved{Entity: e, Component: id})
}

func (w *World) reject(e Entity, id ComponentID) {
	w.logger.Warn().
		Uint32("entity_id", e.ID).
		Uint32("entity_version", e.Version).
		Str("component_name", NameOf(id)).
		Msg("dropped component written to an entity that is not alive")
	h, err := w.components.holderByIndex(int(id))
	if err != nil {
		return
	}
	_ = h.Remove(e)
}

// maskOf returns the live mask of e, growing the mask table when a holder
// was handed an ID beyond the entity capacity.
func (w *World) maskOf(e Entity) *ComponentMask {
	if int(e.ID) >= len(w.masks) {
		w.masks = extendSlice(w.masks, grownCapacity(len(w.masks), int(e.ID))-len(w.masks))
	}
	return &w.masks[e.ID]
}

func (w *World) updateFamilies(e Entity, m *ComponentMask) {
	for _, f := range w.families {
		f.update(e, m)
	}
}
