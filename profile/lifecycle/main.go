// Profiling:
// go build ./profile/lifecycle
// go tool pprof -http=":8000" -nodefraction=0.001 ./lifecycle mem.pprof

package main

import (
	"github.com/edwinsyarief/kumiai"
	"github.com/pkg/profile"
)

const (
	kindPos = iota
	kindVel
	totalKinds
)

type pos struct {
	X int64
	Y int64
}

type vel struct {
	X int64
	Y int64
}

func main() {
	rounds := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		ctx := kumiai.NewContext(totalKinds, nil)
		for range iters {
			created := make([]*kumiai.Entity, 0, numEntities)
			for range numEntities {
				e := ctx.CreateEntity()
				e.AddComponent(kindPos, &pos{X: 1, Y: 2})
				e.AddComponent(kindVel, &vel{X: 3, Y: 4})
				created = append(created, e)
			}
			for _, e := range created {
				ctx.DestroyEntity(e)
			}
		}
	}
}
