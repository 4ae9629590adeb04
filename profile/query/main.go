// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

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
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(10000, 1000)
	p.Stop()
}

func run(iters, numEntities int) {
	r := hive.NewRegistry()

	for idx := range numEntities {
		e := r.MakeEntity("")
		hive.Attach(r, e, comp1{V: int64(idx)})

		if idx%2 == 0 {
			hive.Attach(r, e, comp2{V: int64(idx)})
		}
	}

	for range iters {
		for _, view := range hive.View2[comp1, comp2](r) {
			view.A.V += view.B.V
			view.A.W += view.B.W
		}
	}
}
