package fleks

// OnAdder is implemented by components and tags that react to being
// attached. OnAdd runs after the value is visible in its holder.
type OnAdder interface {
	OnAdd(w *World, e Entity)
}

// OnRemover is implemented by components and tags that react to being
// detached. OnRemove runs after the slot was cleared, so Has already
// reports false for the removed type.
type OnRemover interface {
	OnRemove(w *World, e Entity)
}

type hookFunc func(w *World, e Entity, c any)

// hookTable keeps the world level hooks per ComponentID.
type hookTable struct {
	add    [][]hookFunc
	remove [][]hookFunc
}

// OnAdd registers fn to run whenever a T is attached to any entity of w.
func OnAdd[T any](w *World, fn func(w *World, e Entity, c *T)) {
	id := ComponentIDOf[T]()
	w.hooks.add = appendHook(w.hooks.add, id, func(w *World, e Entity, c any) {
		fn(w, e, c.(*T))
	})
}

// OnRemove registers fn to run whenever a T is detached from any entity of w.
// fn receives the value that was removed.
func OnRemove[T any](w *World, fn func(w *World, e Entity, c *T)) {
	id := ComponentIDOf[T]()
	w.hooks.remove = appendHook(w.hooks.remove, id, func(w *World, e Entity, c any) {
		fn(w, e, c.(*T))
	})
}

func appendHook(hooks [][]hookFunc, id ComponentID, fn hookFunc) [][]hookFunc {
	if int(id) >= len(hooks) {
		hooks = extendSlice(hooks, int(id)+1-len(hooks))
	}
	hooks[id] = append(hooks[id], fn)
	return hooks
}

func fireHooks(hooks [][]hookFunc, w *World, e Entity, id ComponentID, c any) {
	if int(id) >= len(hooks) {
		return
	}
	for _, fn := range hooks[id] {
		fn(w, e, c)
	}
}
