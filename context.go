package fleks

// Context is what a Holder needs from the runtime that owns it: the current
// entity capacity for initial sizing, and the two lifecycle notifications.
// Notifications run synchronously on the caller's goroutine and may mutate
// any holder, including the one that is notifying.
type Context interface {
	Capacity() int
	ComponentAdded(e Entity, id ComponentID, component any)
	ComponentRemoved(e Entity, id ComponentID, component any)
}
