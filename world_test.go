package fleks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/fleks"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ DX, DY float32 }
type Health struct{ Current, Max int }
type Frozen struct{ fleks.Tag }
type Visible struct{ fleks.Tag }

// Sprite counts its own lifecycle calls.
type Sprite struct {
	Name    string
	added   int
	removed int
	hadSelf bool
}

func (s *Sprite) OnAdd(w *fleks.World, e fleks.Entity) {
	s.added++
	s.hadSelf = fleks.Has[Sprite](w, e)
}

func (s *Sprite) OnRemove(w *fleks.World, e fleks.Entity) {
	s.removed++
	s.hadSelf = fleks.Has[Sprite](w, e)
}

// --- Test Suite Setup ---
func newWorld(t *testing.T, opts ...fleks.Option) *fleks.World {
	t.Helper()
	w, err := fleks.NewWorld(append([]fleks.Option{fleks.WithEntityCapacity(4)}, opts...)...)
	require.NoError(t, err)
	return w
}

// go test -run ^TestCreateEntity$ . -count 1
func TestCreateEntity(t *testing.T) {
	w := newWorld(t)
	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	assert.Equal(t, uint32(0), e1.ID)
	assert.Equal(t, uint32(1), e1.Version)
	assert.Equal(t, uint32(1), e2.ID)
	assert.True(t, w.IsAlive(e1))
	assert.Equal(t, 2, w.EntityCount())

	t.Run("capacity doubles when exhausted", func(t *testing.T) {
		for range 3 {
			w.CreateEntity()
		}
		assert.Equal(t, 8, w.Capacity())
		assert.Equal(t, 5, w.EntityCount())
	})

	t.Run("IDs are recycled with a new version", func(t *testing.T) {
		require.NoError(t, w.RemoveEntity(e1))
		assert.False(t, w.IsAlive(e1))
		e := w.CreateEntity()
		assert.Equal(t, e1.ID, e.ID)
		assert.NotEqual(t, e1.Version, e.Version)
		assert.False(t, w.IsAlive(e1), "the stale handle stays dead")
	})
}

// go test -run ^TestSetGetRemove$ . -count 1
func TestSetGetRemove(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()

	p := &Position{X: 1, Y: 2}
	require.NoError(t, fleks.Set(w, e, p))
	assert.True(t, fleks.Has[Position](w, e))
	got, err := fleks.Get[Position](w, e)
	require.NoError(t, err)
	assert.Same(t, p, got)

	got.X = 10
	assert.Equal(t, float32(10), fleks.GetOrNil[Position](w, e).X, "components are mutated in place")

	_, err = fleks.Get[Velocity](w, e)
	require.ErrorIs(t, err, fleks.ErrComponentNotFound)
	assert.Nil(t, fleks.GetOrNil[Velocity](w, e))

	require.NoError(t, fleks.Remove[Position](w, e))
	assert.False(t, fleks.Has[Position](w, e))
	require.NoError(t, fleks.Remove[Position](w, e), "removing twice is a no-op")
}

// go test -run ^TestDeadEntity$ . -count 1
func TestDeadEntity(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{}))
	require.NoError(t, w.RemoveEntity(e))

	require.ErrorIs(t, fleks.Set(w, e, &Position{}), fleks.ErrEntityNotAlive)
	_, err := fleks.Get[Position](w, e)
	require.ErrorIs(t, err, fleks.ErrEntityNotAlive)
	require.ErrorIs(t, fleks.Remove[Position](w, e), fleks.ErrEntityNotAlive)
	require.ErrorIs(t, w.RemoveEntity(e), fleks.ErrEntityNotAlive)
	assert.False(t, fleks.Has[Position](w, e))
	assert.Nil(t, fleks.GetOrNil[Position](w, e))
}

// go test -run ^TestTagsShareValue$ . -count 1
func TestTagsShareValue(t *testing.T) {
	w := newWorld(t)
	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	require.NoError(t, fleks.Set(w, e1, &Frozen{}))
	require.NoError(t, fleks.Set(w, e2, &Frozen{}))
	assert.Same(t, fleks.GetOrNil[Frozen](w, e1), fleks.GetOrNil[Frozen](w, e2))
	assert.True(t, fleks.HolderOf[Frozen](w).IsTag())

	require.NoError(t, fleks.Remove[Frozen](w, e1))
	assert.False(t, fleks.Has[Frozen](w, e1))
	assert.True(t, fleks.Has[Frozen](w, e2))
}

// go test -run ^TestComponentHooks$ . -count 1
func TestComponentHooks(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()

	s1 := &Sprite{Name: "a"}
	require.NoError(t, fleks.Set(w, e, s1))
	assert.Equal(t, 1, s1.added)
	assert.True(t, s1.hadSelf, "the added value is visible from OnAdd")

	s2 := &Sprite{Name: "b"}
	require.NoError(t, fleks.Set(w, e, s2))
	assert.Equal(t, 1, s1.removed, "a replace removes the old value")
	assert.False(t, s1.hadSelf, "the old value is gone before OnRemove")
	assert.Equal(t, 1, s2.added)

	require.NoError(t, w.RemoveEntity(e))
	assert.Equal(t, 1, s2.removed, "teardown fires remove hooks")
}

// go test -run ^TestWorldHooksOrder$ . -count 1
func TestWorldHooksOrder(t *testing.T) {
	w := newWorld(t)
	var log []string
	fleks.OnAdd(w, func(w *fleks.World, e fleks.Entity, p *Position) {
		log = append(log, "add")
	})
	fleks.OnRemove(w, func(w *fleks.World, e fleks.Entity, p *Position) {
		log = append(log, "remove")
		assert.False(t, fleks.Has[Position](w, e))
		assert.False(t, w.Mask(e).Has(fleks.ComponentIDOf[Position]()), "the mask is cleared before hooks")
	})
	fleks.Subscribe(w.Events(), func(ev fleks.ComponentAdded) {
		log = append(log, "added-event")
	})
	fleks.Subscribe(w.Events(), func(ev fleks.ComponentRemoved) {
		log = append(log, "removed-event")
	})

	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{X: 1}))
	require.NoError(t, fleks.Set(w, e, &Position{X: 2}))
	require.NoError(t, fleks.Remove[Velocity](w, e))
	require.NoError(t, fleks.Remove[Position](w, e))

	assert.Equal(t, []string{
		"add", "added-event",
		"remove", "removed-event", "add", "added-event",
		"remove", "removed-event",
	}, log)
}

// go test -run ^TestReentrantHooks$ . -count 1
func TestReentrantHooks(t *testing.T) {
	w := newWorld(t)
	// adding Health brings a Velocity, removing Health takes it away
	fleks.OnAdd(w, func(w *fleks.World, e fleks.Entity, h *Health) {
		require.NoError(t, fleks.Set(w, e, &Velocity{DX: 1}))
	})
	fleks.OnRemove(w, func(w *fleks.World, e fleks.Entity, h *Health) {
		require.NoError(t, fleks.Remove[Velocity](w, e))
	})

	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Health{Current: 5}))
	assert.True(t, fleks.Has[Velocity](w, e))

	require.NoError(t, fleks.Remove[Health](w, e))
	assert.False(t, fleks.Has[Velocity](w, e))
	assert.True(t, w.Mask(e).IsEmpty())
}

// go test -run ^TestRemoveEntityClearsEverything$ . -count 1
func TestRemoveEntityClearsEverything(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()
	other := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{}))
	require.NoError(t, fleks.Set(w, e, &Velocity{}))
	require.NoError(t, fleks.Set(w, e, &Frozen{}))
	require.NoError(t, fleks.Set(w, other, &Frozen{}))

	var removed []fleks.ComponentID
	fleks.Subscribe(w.Events(), func(ev fleks.ComponentRemoved) {
		removed = append(removed, ev.Component)
	})
	var gone []fleks.Entity
	fleks.Subscribe(w.Events(), func(ev fleks.EntityRemoved) {
		gone = append(gone, ev.Entity)
	})

	require.NoError(t, w.RemoveEntity(e))
	assert.Len(t, removed, 3)
	assert.Equal(t, []fleks.Entity{e}, gone)
	assert.True(t, w.Mask(e).IsEmpty())
	assert.True(t, fleks.Has[Frozen](w, other))

	reused := w.CreateEntity()
	assert.Equal(t, e.ID, reused.ID)
	assert.False(t, fleks.Has[Position](w, reused), "a recycled ID starts empty")
}

// go test -run ^TestHooksReadDuringTeardown$ . -count 1
func TestHooksReadDuringTeardown(t *testing.T) {
	type shield struct{ Charge int }
	type armor struct{ Rating int }
	// shield gets the lower identity so teardown removes it first
	fleks.ComponentIDOf[shield]()
	fleks.ComponentIDOf[armor]()

	w := newWorld(t)
	var seen *armor
	fleks.OnRemove(w, func(w *fleks.World, e fleks.Entity, s *shield) {
		seen = fleks.GetOrNil[armor](w, e)
		assert.ErrorIs(t, fleks.Set(w, e, &Velocity{}), fleks.ErrEntityNotAlive, "no writes to a dying entity")
	})
	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &shield{Charge: 1}))
	require.NoError(t, fleks.Set(w, e, &armor{Rating: 3}))

	require.NoError(t, w.RemoveEntity(e))
	require.NotNil(t, seen)
	assert.Equal(t, 3, seen.Rating)
}

// go test -run ^TestReplaceDestroyingEntity$ . -count 1
func TestReplaceDestroyingEntity(t *testing.T) {
	type hitPoints struct{ HP int }

	cases := map[string]struct {
		replace func(w *fleks.World, e fleks.Entity) error
		wantErr error
	}{
		"Set": {
			replace: func(w *fleks.World, e fleks.Entity) error {
				return fleks.Set(w, e, &hitPoints{HP: 2})
			},
			wantErr: fleks.ErrEntityNotAlive,
		},
		"SetWildcard": {
			replace: func(w *fleks.World, e fleks.Entity) error {
				return w.SetWildcard(e, fleks.ComponentIDOf[hitPoints](), hitPoints{HP: 2})
			},
			wantErr: fleks.ErrEntityNotAlive,
		},
		"Holder": {
			replace: func(w *fleks.World, e fleks.Entity) error {
				fleks.HolderOf[hitPoints](w).Set(e, &hitPoints{HP: 2})
				return nil
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := newWorld(t)
			f := fleks.NewFamily(w, fleks.FamilyDef{All: []fleks.ComponentID{fleks.ComponentIDOf[hitPoints]()}})
			e := w.CreateEntity()
			require.NoError(t, fleks.Set(w, e, &hitPoints{HP: 1}))

			// losing the old hit points kills the entity
			fleks.OnRemove(w, func(w *fleks.World, e fleks.Entity, hp *hitPoints) {
				if w.IsAlive(e) {
					require.NoError(t, w.RemoveEntity(e))
				}
			})
			added := 0
			fleks.Subscribe(w.Events(), func(ev fleks.ComponentAdded) { added++ })

			err := tc.replace(w, e)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.False(t, w.IsAlive(e))
			assert.Equal(t, 0, added, "nothing is announced for a destroyed entity")
			assert.Equal(t, 0, f.Len())

			fresh := w.CreateEntity()
			require.Equal(t, e.ID, fresh.ID)
			assert.False(t, fleks.Has[hitPoints](w, fresh), "a recycled ID starts empty")
			assert.True(t, w.Mask(fresh).IsEmpty())
			assert.False(t, f.Contains(fresh))
		})
	}
}

// go test -run ^TestWritesDuringTeardownAreDropped$ . -count 1
func TestWritesDuringTeardownAreDropped(t *testing.T) {
	w := newWorld(t)
	fleks.OnRemove(w, func(w *fleks.World, e fleks.Entity, p *Position) {
		fleks.HolderOf[Velocity](w).Set(e, &Velocity{DX: 1})
	})
	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{}))
	require.NoError(t, w.RemoveEntity(e))

	fresh := w.CreateEntity()
	require.Equal(t, e.ID, fresh.ID)
	assert.False(t, fleks.Has[Velocity](w, fresh))
	assert.True(t, w.Mask(fresh).IsEmpty())
}

// go test -run ^TestWildcardAccess$ . -count 1
func TestWildcardAccess(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()
	id := fleks.ComponentIDOf[Health]()

	require.NoError(t, w.SetWildcard(e, id, Health{Current: 7, Max: 9}))
	assert.Equal(t, 7, fleks.GetOrNil[Health](w, e).Current)
	assert.True(t, w.Mask(e).Has(id))

	require.ErrorIs(t, w.SetWildcard(e, id, Position{}), fleks.ErrTypeMismatch)
	assert.Equal(t, 7, fleks.GetOrNil[Health](w, e).Current, "a mismatched value leaves the old one in place")

	h, err := w.HolderByIndex(int(id))
	require.NoError(t, err)
	assert.Equal(t, id, h.ID())
	assert.True(t, h.Contains(e))

	_, err = w.HolderByIndex(1 << 20)
	require.ErrorIs(t, err, fleks.ErrOutOfRange)

	wh, err := w.WildcardHolder(id)
	require.NoError(t, err)
	assert.Same(t, h, wh)
	assert.GreaterOrEqual(t, w.Holders(), 1)
}

// go test -run ^TestMask$ . -count 1
func TestMask(t *testing.T) {
	w := newWorld(t)
	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{}))
	require.NoError(t, fleks.Set(w, e, &Visible{}))

	m := w.Mask(e)
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Has(fleks.ComponentIDOf[Position]()))
	assert.True(t, m.Has(fleks.ComponentIDOf[Visible]()))
	assert.False(t, m.Has(fleks.ComponentIDOf[Velocity]()))

	require.NoError(t, fleks.Remove[Visible](w, e))
	assert.True(t, m.Has(fleks.ComponentIDOf[Visible]()), "Mask returns a copy")
	assert.False(t, w.Mask(e).Has(fleks.ComponentIDOf[Visible]()))
}
