package kumiai

import (
	"fmt"
	"testing"
)

type benchPos struct{ X, Y float64 }
type benchVel struct{ VX, VY float64 }

const (
	benchKindPos = iota
	benchKindVel
	benchKindTag
	benchTotalKinds = 24
)

func newBenchContext() *Context {
	return NewContext(benchTotalKinds, nil)
}

// Entity churn through the reusable pool.
func BenchmarkCreateDestroyEntity(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			ctx := newBenchContext()
			entities := make([]*Entity, 0, size)
			for b.Loop() {
				entities = entities[:0]
				for range size {
					entities = append(entities, ctx.CreateEntity())
				}
				for _, e := range entities {
					ctx.DestroyEntity(e)
				}
			}
			b.ReportAllocs()
		})
	}
}

// Component mutation with one subscribed group: the full routing path.
func BenchmarkAddRemoveComponentRouted(b *testing.B) {
	ctx := newBenchContext()
	ctx.GetGroup(AllOf(benchKindPos))
	e := ctx.CreateEntity()
	pos := &benchPos{}
	for b.Loop() {
		e.AddComponent(benchKindPos, pos)
		e.RemoveComponent(benchKindPos)
	}
	b.ReportAllocs()
}

// Replace on a group member: update broadcast, no membership change.
func BenchmarkReplaceComponentRouted(b *testing.B) {
	ctx := newBenchContext()
	ctx.GetGroup(AllOf(benchKindVel))
	e := ctx.CreateEntity()
	v1 := &benchVel{VX: 1}
	v2 := &benchVel{VX: 2}
	e.AddComponent(benchKindVel, v1)
	for b.Loop() {
		e.ReplaceComponent(benchKindVel, v2)
		e.ReplaceComponent(benchKindVel, v1)
	}
	b.ReportAllocs()
}

// Mutation fan-out across several groups subscribed to the same kind.
func BenchmarkGroupFanOut(b *testing.B) {
	fanOuts := []int{1, 4, 16}
	for _, n := range fanOuts {
		b.Run(fmt.Sprintf("groups_%d", n), func(b *testing.B) {
			ctx := newBenchContext()
			ctx.GetGroup(AllOf(benchKindPos))
			for i := 1; i < n; i++ {
				// Distinct matchers, all subscribed to the mutated kind.
				ctx.GetGroup(AllOf(benchKindPos, benchTotalKinds-i))
			}
			e := ctx.CreateEntity()
			pos := &benchPos{}
			for b.Loop() {
				e.AddComponent(benchKindPos, pos)
				e.RemoveComponent(benchKindPos)
			}
			b.ReportAllocs()
		})
	}
}

// Matcher evaluation against a populated entity.
func BenchmarkMatcherMatches(b *testing.B) {
	ctx := newBenchContext()
	e := ctx.CreateEntity()
	e.AddComponent(benchKindPos, &benchPos{})
	e.AddComponent(benchKindVel, &benchVel{})
	m := AllOf(benchKindPos, benchKindVel).NoneOf(benchKindTag)
	sink := false
	for b.Loop() {
		sink = m.Matches(e)
	}
	_ = sink
	b.ReportAllocs()
}

// Cached population snapshot rebuild after an invalidating mutation.
func BenchmarkGetEntitiesRebuild(b *testing.B) {
	ctx := newBenchContext()
	for range 1000 {
		ctx.CreateEntity()
	}
	e := ctx.CreateEntity()
	for b.Loop() {
		ctx.DestroyEntity(e)
		e = ctx.CreateEntity()
		_ = ctx.GetEntities()
	}
	b.ReportAllocs()
}
