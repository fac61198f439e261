package fleks

// Entity is an ID plus a version tag. The ID indexes every holder; the
// version tells a recycled ID apart from the entity that used it before.
type Entity struct {
	ID      uint32 // The unique, recyclable ID of the entity.
	Version uint32 // The version of the entity, 0 never belongs to a live entity.
}

// entityRegistry allocates and recycles entity IDs.
type entityRegistry struct {
	freeIDs     []uint32 // stack of free IDs, lowest on top
	versions    []uint32 // current version per ID, 0 if dead
	capacity    int
	nextVersion uint32
	alive       int
}

func newEntityRegistry(capacity int) entityRegistry {
	r := entityRegistry{
		freeIDs:     make([]uint32, capacity),
		versions:    make([]uint32, capacity),
		capacity:    capacity,
		nextVersion: 1,
	}
	for i := range r.freeIDs {
		r.freeIDs[i] = uint32(capacity - 1 - i)
	}
	return r
}

// expand grows the ID space to at least double, or by additional, whichever is larger.
func (r *entityRegistry) expand(additional int) {
	oldCap := r.capacity
	newCap := max(oldCap*2, oldCap+additional)
	if newCap == 0 {
		newCap = 1
	}
	delta := newCap - oldCap
	r.versions = extendSlice(r.versions, delta)
	newFree := make([]uint32, delta)
	for i := range delta {
		newFree[i] = uint32(newCap - 1 - i)
	}
	// new IDs go underneath the recycled ones so recycling stays preferred
	r.freeIDs = append(newFree, r.freeIDs...)
	r.capacity = newCap
}

func (r *entityRegistry) create() Entity {
	if len(r.freeIDs) == 0 {
		r.expand(1)
	}
	last := len(r.freeIDs) - 1
	id := r.freeIDs[last]
	r.freeIDs = r.freeIDs[:last]
	ver := r.nextVersion
	r.nextVersion++
	r.versions[id] = ver
	r.alive++
	return Entity{ID: id, Version: ver}
}

func (r *entityRegistry) isAlive(e Entity) bool {
	if int(e.ID) >= len(r.versions) {
		return false
	}
	v := r.versions[e.ID]
	return v != 0 && v == e.Version
}

func (r *entityRegistry) kill(e Entity) {
	r.versions[e.ID] = 0
	r.freeIDs = append(r.freeIDs, e.ID)
	r.alive--
}

// restore marks e alive with its exact ID and version. Callers must call
// rebuildFreeIDs once they are done restoring.
func (r *entityRegistry) restore(e Entity) {
	if int(e.ID) >= r.capacity {
		r.expand(int(e.ID) + 1 - r.capacity)
	}
	if r.versions[e.ID] == 0 {
		r.alive++
	}
	r.versions[e.ID] = e.Version
	if e.Version >= r.nextVersion {
		r.nextVersion = e.Version + 1
	}
}

func (r *entityRegistry) rebuildFreeIDs() {
	r.freeIDs = r.freeIDs[:0]
	for i := r.capacity - 1; i >= 0; i-- {
		if r.versions[i] == 0 {
			r.freeIDs = append(r.freeIDs, uint32(i))
		}
	}
}

// each calls fn for every live entity in ID order.
func (r *entityRegistry) each(fn func(e Entity)) {
	for id, v := range r.versions {
		if v != 0 {
			fn(Entity{ID: uint32(id), Version: v})
		}
	}
}
