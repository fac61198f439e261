package fleks

import "reflect"

// ComponentAdded is published after a component or tag was attached and
// every hook for it has run.
type ComponentAdded struct {
	Entity    Entity
	Component ComponentID
}

// ComponentRemoved is published after a component or tag was detached and
// every hook for it has run.
type ComponentRemoved struct {
	Entity    Entity
	Component ComponentID
}

// EntityCreated is published when the World hands out an entity.
type EntityCreated struct {
	Entity Entity
}

// EntityRemoved is published once an entity has been torn down and its ID freed.
type EntityRemoved struct {
	Entity Entity
}

// EventBus is a synchronous, type-keyed publish/subscribe table. The World
// publishes its lifecycle events on one, and callers may publish their own
// event types on it too.
type EventBus struct {
	eventTypeMap map[reflect.Type]int
	handlers     [][]any
}

// Subscribe registers handler for events of type T. Handlers run in
// subscription order.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.getEventTypeID(reflect.TypeFor[T]())
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish calls every handler subscribed to T, synchronously.
func Publish[T any](bus *EventBus, event T) {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[id] {
		h.(func(T))(event)
	}
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) int {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]int)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	id := len(bus.handlers)
	bus.handlers = append(bus.handlers, make([]any, 0, 4))
	bus.eventTypeMap[t] = id
	return id
}
