// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"
	"github.com/sevanger/hive"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(50, 1000)
	p.Stop()
}

func run(rounds, numEntities int) {
	for range rounds {
		r := hive.NewRegistry()

		entities := make([]hive.Entity, 0, numEntities)
		for idx := range numEntities {
			e := r.MakeEntity("")
			hive.Attach(r, e, comp1{V: int64(idx)})
			hive.Attach(r, e, comp2{V: int64(idx)})
			entities = append(entities, e)
		}

		for _, e := range entities {
			hive.Detach[comp1](r, e)
		}

		for _, e := range entities {
			r.Destroy(e)
		}
	}
}
