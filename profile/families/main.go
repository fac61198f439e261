// Profiling:
// go build ./profile/families
// go tool pprof -http=":8000" -nodefraction=0.001 ./families cpu.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

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

type comp3 struct {
	V int64
	W int64
}

type sleeping struct{ fleks.Tag }

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 10
	iters := 1000
	entities := 100000
	run(count, iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := fleks.NewWorld(fleks.WithEntityCapacity(numEntities))
		if err != nil {
			panic(err)
		}
		awake := fleks.NewFamily(w, fleks.FamilyDef{
			All:  []fleks.ComponentID{fleks.ComponentIDOf[comp1](), fleks.ComponentIDOf[comp2]()},
			None: []fleks.ComponentID{fleks.ComponentIDOf[sleeping]()},
		})
		for i := range numEntities {
			e := w.CreateEntity()
			_ = fleks.Set(w, e, &comp1{})
			_ = fleks.Set(w, e, &comp2{V: 1, W: 1})
			_ = fleks.Set(w, e, &comp3{})
			if i%4 == 0 {
				_ = fleks.Set(w, e, &sleeping{})
			}
		}

		c1 := fleks.HolderOf[comp1](w)
		c2 := fleks.HolderOf[comp2](w)
		for range iters {
			awake.Each(func(e fleks.Entity) {
				a, b := c1.GetOrNil(e), c2.GetOrNil(e)
				a.V += b.V
				a.W += b.W
			})
		}
	}
}
