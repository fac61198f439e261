package fleks

import "github.com/bits-and-blooms/bitset"

// FamilyDef describes which entities belong to a Family: every identity in
// All, at least one of Any (when Any is non-empty), and none of None.
type FamilyDef struct {
	All  []ComponentID
	Any  []ComponentID
	None []ComponentID
}

// Family tracks the live entities whose component mask matches a FamilyDef.
// Membership is re-evaluated on every add and remove notification, before
// any hook runs, so hooks always observe up to date membership.
type Family struct {
	world   *World
	members *bitset.BitSet
	all     ComponentMask
	any     ComponentMask
	none    ComponentMask
}

// NewFamily creates a family on w and seeds it with the entities that
// already match.
//
// The family stays registered on w for the World's lifetime and is updated
// on every add and remove notification, so creating families in a loop
// grows the per-notification cost.
//
// Parameters:
//   - w: The World whose entities are tracked.
//   - def: The membership rule. An empty FamilyDef matches every live entity.
//
// Returns:
//   - The Family, already holding the matching entities.
func NewFamily(w *World, def FamilyDef) *Family {
	f := &Family{
		world:   w,
		members: bitset.New(uint(w.Capacity())),
		all:     NewComponentMask(def.All...),
		any:     NewComponentMask(def.Any...),
		none:    NewComponentMask(def.None...),
	}
	w.entities.each(func(e Entity) {
		f.update(e, w.maskOf(e))
	})
	w.families = append(w.families, f)
	return f
}

// Matches reports whether m satisfies the family definition.
func (f *Family) Matches(m *ComponentMask) bool {
	if !m.includesAll(&f.all) {
		return false
	}
	if !f.any.IsEmpty() && !m.intersects(&f.any) {
		return false
	}
	return !m.intersects(&f.none)
}

// Contains reports whether e currently belongs to the family.
func (f *Family) Contains(e Entity) bool {
	return f.world.entities.isAlive(e) && f.members.Test(uint(e.ID))
}

// Len returns the number of member entities.
func (f *Family) Len() int {
	return int(f.members.Count())
}

// Each calls fn for every member in ID order. fn may add or remove
// components; entities that join the family during iteration may or may
// not be visited.
func (f *Family) Each(fn func(e Entity)) {
	for i, ok := f.members.NextSet(0); ok; i, ok = f.members.NextSet(i + 1) {
		if int(i) >= len(f.world.entities.versions) {
			break
		}
		v := f.world.entities.versions[i]
		if v == 0 {
			continue
		}
		fn(Entity{ID: uint32(i), Version: v})
	}
}

// Entities returns the members in ID order.
func (f *Family) Entities() []Entity {
	out := make([]Entity, 0, f.Len())
	f.Each(func(e Entity) { out = append(out, e) })
	return out
}

func (f *Family) update(e Entity, m *ComponentMask) {
	if f.Matches(m) {
		f.members.Set(uint(e.ID))
	} else {
		f.members.Clear(uint(e.ID))
	}
}

func (f *Family) drop(e Entity) {
	f.members.Clear(uint(e.ID))
}
