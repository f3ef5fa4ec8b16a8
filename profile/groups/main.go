// Profiling:
// go build ./profile/groups
// go tool pprof -http=":8000" -nodefraction=0.001 ./groups mem.pprof

package main

import (
	"github.com/edwinsyarief/kumiai"
	"github.com/pkg/profile"
)

const (
	kindPos = iota
	kindVel
	kindTag
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
		moving := ctx.GetGroup(kumiai.AllOf(kindPos, kindVel))
		static := ctx.GetGroup(kumiai.AllOf(kindPos).NoneOf(kindVel))

		for range numEntities {
			e := ctx.CreateEntity()
			e.AddComponent(kindPos, &pos{})
		}
		velocities := make([]*vel, numEntities)
		for i := range velocities {
			velocities[i] = &vel{X: 1, Y: 1}
		}

		for range iters {
			// Flip every entity between the two groups and walk the members.
			for i, e := range ctx.GetEntities() {
				e.AddComponent(kindVel, velocities[i])
			}
			sum := int64(0)
			for _, e := range moving.GetEntities() {
				v := e.GetComponent(kindVel).(*vel)
				sum += v.X + v.Y
			}
			for _, e := range ctx.GetEntities() {
				e.RemoveComponent(kindVel)
			}
			_ = sum
			_ = static
		}
	}
}
