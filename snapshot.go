package fleks

import (
	"reflect"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// SnapshotOf returns the components and tags of e in ComponentID order.
// Values are the pointers stored in the holders, not copies.
func (w *World) SnapshotOf(e Entity) ([]any, error) {
	if !w.IsAlive(e) {
		return nil, eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	m := w.maskOf(e)
	out := make([]any, 0, m.Len())
	for _, id := range m.IDs() {
		h, err := w.components.holderByIndex(int(id))
		if err != nil {
			return nil, eris.Wrapf(err, "snapshot of entity %d", e.ID)
		}
		if c, ok := h.GetAny(e); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Snapshot returns the components of every live entity.
func (w *World) Snapshot() (map[Entity][]any, error) {
	snap := make(map[Entity][]any, w.entities.alive)
	var err error
	w.entities.each(func(e Entity) {
		if err != nil {
			return
		}
		var comps []any
		comps, err = w.SnapshotOf(e)
		snap[e] = comps
	})
	return snap, err
}

// LoadSnapshot removes every entity, then recreates the entities of snap
// with their exact IDs and versions and attaches their components through
// the type-erased path.
//
// Removal fires the usual remove hooks; attaching fires the add hooks in
// the order of each entity's slice, entities in ID order. IDs not present in
// snap become free, lowest first.
//
// Parameters:
//   - snap: Components per entity as returned by Snapshot. Values may be T
//     or *T; pointers are stored as is, not copied. Every component type
//     must already be registered.
//
// Returns:
//   - ErrUnknownComponent for an unregistered type, ErrEntityNotAlive for
//     an entity with version 0, or the first error from attaching.
func (w *World) LoadSnapshot(snap map[Entity][]any) error {
	if err := w.RemoveAll(); err != nil {
		return err
	}
	entities := sortedEntities(snap)
	for _, e := range entities {
		if err := w.restoreEntity(e); err != nil {
			return err
		}
	}
	w.entities.rebuildFreeIDs()
	for _, e := range entities {
		for _, c := range snap[e] {
			id, err := componentIDOfValue(c)
			if err != nil {
				return err
			}
			if err := w.SetWildcard(e, id, c); err != nil {
				return err
			}
		}
	}
	w.logger.Debug().Int("entities", len(entities)).Msg("snapshot loaded")
	return nil
}

type snapshotEntity struct {
	Components map[string]json.RawMessage `json:"components"`
	ID         uint32                     `json:"id"`
	Version    uint32                     `json:"version"`
}

type snapshotDocument struct {
	Entities []snapshotEntity `json:"entities"`
}

// EncodeSnapshot serializes every live entity to JSON, keying components by
// their registered name.
func (w *World) EncodeSnapshot() ([]byte, error) {
	doc := snapshotDocument{Entities: make([]snapshotEntity, 0, w.entities.alive)}
	var err error
	w.entities.each(func(e Entity) {
		if err != nil {
			return
		}
		se := snapshotEntity{ID: e.ID, Version: e.Version, Components: map[string]json.RawMessage{}}
		for _, id := range w.maskOf(e).IDs() {
			var h WildcardHolder
			h, err = w.components.holderByIndex(int(id))
			if err != nil {
				return
			}
			var bz []byte
			bz, err = h.encode(e)
			if err != nil {
				return
			}
			se.Components[h.Name()] = bz
		}
		doc.Entities = append(doc.Entities, se)
	})
	if err != nil {
		return nil, eris.Wrap(err, "encoding snapshot")
	}
	return Encode(doc)
}

// DecodeSnapshot replaces the World content with a document produced by
// EncodeSnapshot. Every component name in the document must be registered.
func (w *World) DecodeSnapshot(data []byte) error {
	doc, err := Decode[snapshotDocument](data)
	if err != nil {
		return eris.Wrap(err, "decoding snapshot")
	}
	if err := w.RemoveAll(); err != nil {
		return err
	}
	for _, se := range doc.Entities {
		if err := w.restoreEntity(Entity{ID: se.ID, Version: se.Version}); err != nil {
			return err
		}
	}
	w.entities.rebuildFreeIDs()
	for _, se := range doc.Entities {
		e := Entity{ID: se.ID, Version: se.Version}
		names := make([]string, 0, len(se.Components))
		for name := range se.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			id, ok := LookupName(name)
			if !ok {
				return eris.Wrapf(ErrUnknownComponent, "component %q of entity %d", name, e.ID)
			}
			h, err := w.components.wildcardHolder(id)
			if err != nil {
				return err
			}
			if err := h.decode(e, se.Components[name]); err != nil {
				return err
			}
		}
	}
	w.logger.Debug().Int("entities", len(doc.Entities)).Msg("snapshot decoded")
	return nil
}

func (w *World) restoreEntity(e Entity) error {
	if e.Version == 0 {
		return eris.Wrapf(ErrEntityNotAlive, "snapshot entity %d has version 0", e.ID)
	}
	w.entities.restore(e)
	m := w.maskOf(e)
	m.clear()
	w.updateFamilies(e, m)
	return nil
}

func componentIDOfValue(c any) (ComponentID, error) {
	t := reflect.TypeOf(c)
	if t == nil {
		return 0, eris.Wrap(ErrTypeMismatch, "nil component in snapshot")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	id, ok := LookupID(t)
	if !ok {
		return 0, eris.Wrapf(ErrUnknownComponent, "type %s", t)
	}
	return id, nil
}

func sortedEntities(snap map[Entity][]any) []Entity {
	out := make([]Entity, 0, len(snap))
	for e := range snap {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
