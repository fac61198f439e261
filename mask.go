package fleks

import "github.com/bits-and-blooms/bitset"

// ComponentMask is the set of component and tag identities present on an
// entity. The World keeps one per entity in step with holder notifications;
// families read it to decide membership.
type ComponentMask struct {
	bits bitset.BitSet
}

// NewComponentMask creates a mask containing ids.
func NewComponentMask(ids ...ComponentID) ComponentMask {
	var m ComponentMask
	for _, id := range ids {
		m.set(id)
	}
	return m
}

// Has checks if the mask has a specific component ID.
func (m ComponentMask) Has(id ComponentID) bool {
	return m.bits.Test(uint(id))
}

// Len returns the number of identities in the mask.
func (m ComponentMask) Len() int {
	return int(m.bits.Count())
}

// IsEmpty reports whether no identity is set.
func (m ComponentMask) IsEmpty() bool {
	return m.bits.None()
}

// IDs returns the identities in ascending order.
func (m ComponentMask) IDs() []ComponentID {
	ids := make([]ComponentID, 0, m.bits.Count())
	for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
		ids = append(ids, ComponentID(i))
	}
	return ids
}

// Clone returns an independent copy.
func (m ComponentMask) Clone() ComponentMask {
	return ComponentMask{bits: *m.bits.Clone()}
}

func (m *ComponentMask) set(id ComponentID) {
	m.bits.Set(uint(id))
}

func (m *ComponentMask) unset(id ComponentID) {
	m.bits.Clear(uint(id))
}

func (m *ComponentMask) clear() {
	m.bits.ClearAll()
}

// includesAll checks if m contains every identity of include.
func (m *ComponentMask) includesAll(include *ComponentMask) bool {
	return m.bits.IsSuperSet(&include.bits)
}

// intersects checks if m has any identity in common with other.
func (m *ComponentMask) intersects(other *ComponentMask) bool {
	return m.bits.IntersectionCardinality(&other.bits) > 0
}
