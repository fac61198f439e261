// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/edwinsyarief/fleks"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type marked struct{ fleks.Tag }

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := fleks.NewWorld(fleks.WithEntityCapacity(numEntities))
		if err != nil {
			panic(err)
		}
		entities := make([]fleks.Entity, numEntities)
		mark := &marked{}

		for range iters {
			for i := range entities {
				e := w.CreateEntity()
				entities[i] = e
				_ = fleks.Set(w, e, &comp1{V: 1})
				_ = fleks.Set(w, e, &comp2{V: 2, W: 2})
				if i%2 == 0 {
					_ = fleks.Set(w, e, mark)
				}
			}
			for _, e := range entities {
				c1 := fleks.GetOrNil[comp1](w, e)
				c2 := fleks.GetOrNil[comp2](w, e)
				c1.V += c2.V
				c1.W += c2.W
				// replace fires remove then add
				_ = fleks.Set(w, e, &comp2{V: c1.V})
			}
			for _, e := range entities {
				_ = w.RemoveEntity(e)
			}
		}
	}
}
