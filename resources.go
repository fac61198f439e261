package fleks

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Resources holds at most one value per type. Hooks reach shared services
// (spawners, caches, the event log of a game) through it instead of
// package globals. IDs of removed resources are reused.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIDs []int
}

// Add stores res and returns its ID. Adding nil or a second value of the
// same type fails.
func (r *Resources) Add(res any) (int, error) {
	if res == nil {
		return -1, eris.New("cannot add nil resource")
	}
	t := reflect.TypeOf(res)
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		return -1, eris.Errorf("resource of type %s already exists", t)
	}
	var id int
	if len(r.freeIDs) > 0 {
		id = r.freeIDs[len(r.freeIDs)-1]
		r.freeIDs = r.freeIDs[:len(r.freeIDs)-1]
		r.items[id] = res
	} else {
		r.items = append(r.items, res)
		id = len(r.items) - 1
	}
	r.types[t] = id
	return id, nil
}

// Has checks if a resource with the given ID exists.
func (r *Resources) Has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get returns the resource stored under id, or nil.
func (r *Resources) Get(id int) any {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Remove drops the resource stored under id.
func (r *Resources) Remove(id int) {
	if !r.Has(id) {
		return
	}
	delete(r.types, reflect.TypeOf(r.items[id]))
	r.items[id] = nil
	r.freeIDs = append(r.freeIDs, id)
}

// Clear removes all resources.
func (r *Resources) Clear() {
	clear(r.items)
	r.items = r.items[:0]
	clear(r.types)
	r.freeIDs = r.freeIDs[:0]
}

// GetResource returns the *T resource, or nil if there is none.
func GetResource[T any](r *Resources) *T {
	id, ok := r.types[reflect.TypeFor[*T]()]
	if !ok {
		return nil
	}
	return r.items[id].(*T)
}
