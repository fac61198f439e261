// Package fleks provides the component storage core of an Entity Component
// System: typed per-entity data, presence-only tags, and lifecycle
// notification on every attach and detach.
//
// Features:
// - Process-wide, monotonic type identities shared by components and tags.
// - Dense per-entity slots for components, a bitset plus one shared value for tags.
// - Holders that grow on demand and fire remove/add hooks with clear-before-notify ordering.
// - A type-erased boundary for snapshot restoration.
package fleks

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ComponentID is the stable identity of a component or tag type. IDs are
// assigned in first-use order starting at 0 and are never reused or
// renumbered for the lifetime of the process.
type ComponentID uint32

// Tag marks a type as a presence-only marker. Embed it in an empty struct:
//
//	type Frozen struct{ fleks.Tag }
//
// All entities carrying a tag share the first instance ever set on any
// entity. Later instances only toggle presence and are otherwise discarded,
// so a tag must never be used to carry data.
type Tag struct{}

func (Tag) isTag() {}

type tagged interface{ isTag() }

var taggedType = reflect.TypeFor[tagged]()

// componentInfo describes one registered component or tag type.
type componentInfo struct {
	typ       reflect.Type
	name      string
	tag       bool
	newHolder func(ctx Context, id ComponentID, capacity int) WildcardHolder
}

// typeRegistry hands out ComponentIDs. Lookups take a read lock; only the
// first reference to a type takes the write lock.
type typeRegistry struct {
	byType map[reflect.Type]ComponentID
	byName map[string]ComponentID
	infos  []componentInfo
	mu     sync.RWMutex
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		byType: make(map[reflect.Type]ComponentID, 64),
		byName: make(map[string]ComponentID, 64),
		infos:  make([]componentInfo, 0, 64),
	}
}

var registry atomic.Pointer[typeRegistry]

func init() {
	registry.Store(newTypeRegistry())
}

// ResetGlobalRegistry forgets every registered type. IDs start again at 0.
// It exists for tests; worlds created before the reset must not be used
// afterwards. Registrations racing with the reset land in either the old or
// the new registry, never in a torn one.
func ResetGlobalRegistry() {
	registry.Store(newTypeRegistry())
}

// ComponentIDOf returns the identity of T, registering T on first use.
// Types embedding Tag are registered as tags, everything else as dense
// components.
func ComponentIDOf[T any]() ComponentID {
	t := reflect.TypeFor[T]()
	r := registry.Load()
	r.mu.RLock()
	id, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byType[t]; ok {
		return id
	}
	id = ComponentID(len(r.infos))
	info := componentInfo{
		typ:  t,
		name: t.String(),
		tag:  t.Implements(taggedType),
	}
	isTag := info.tag
	info.newHolder = func(ctx Context, id ComponentID, capacity int) WildcardHolder {
		return newHolder[T](ctx, id, capacity, isTag)
	}
	r.infos = append(r.infos, info)
	r.byType[t] = id
	if _, taken := r.byName[info.name]; !taken {
		r.byName[info.name] = id
	}
	return id
}

// LookupID returns the identity of an already registered type.
func LookupID(t reflect.Type) (ComponentID, bool) {
	r := registry.Load()
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byType[t]
	return id, ok
}

// LookupName returns the identity registered under name, as reported by NameOf.
func LookupName(name string) (ComponentID, bool) {
	r := registry.Load()
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// NameOf returns the registered name of id, or "" if id is unknown.
func NameOf(id ComponentID) string {
	info, ok := registry.Load().info(id)
	if !ok {
		return ""
	}
	return info.name
}

// TypeOf returns the Go type registered under id, or nil if id is unknown.
func TypeOf(id ComponentID) reflect.Type {
	info, ok := registry.Load().info(id)
	if !ok {
		return nil
	}
	return info.typ
}

// IsTag reports whether id was registered as a tag.
func IsTag(id ComponentID) bool {
	info, ok := registry.Load().info(id)
	return ok && info.tag
}

// RegisteredComponents returns every registered identity in ascending order.
func RegisteredComponents() []ComponentID {
	r := registry.Load()
	r.mu.RLock()
	ids := make([]ComponentID, len(r.infos))
	for i := range r.infos {
		ids[i] = ComponentID(i)
	}
	r.mu.RUnlock()
	return ids
}

func (r *typeRegistry) info(id ComponentID) (componentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.infos) {
		return componentInfo{}, false
	}
	return r.infos[id], true
}
