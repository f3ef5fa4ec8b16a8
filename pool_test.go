package kumiai_test

import "testing"

// go test -run ^TestComponentPoolCheckoutReturn$ . -count 1
func TestComponentPoolCheckoutReturn(t *testing.T) {
	ctx := newTestContext(t)
	pools := ctx.Pools()

	if got := pools.Checkout(kindPosition); got != nil {
		t.Errorf("Empty pool without a factory should hand out nil, got %v", got)
	}

	p1 := &Position{X: 1}
	p2 := &Position{X: 2}
	pools.Return(kindPosition, p1)
	pools.Return(kindPosition, p2)
	if pools.Size(kindPosition) != 2 {
		t.Fatalf("Expected pool size 2, got %d", pools.Size(kindPosition))
	}

	// LIFO: the most recently returned object comes back first.
	if got := pools.Checkout(kindPosition); got != p2 {
		t.Errorf("Expected %v, got %v", p2, got)
	}
	if got := pools.Checkout(kindPosition); got != p1 {
		t.Errorf("Expected %v, got %v", p1, got)
	}
}

// go test -run ^TestComponentPoolFactory$ . -count 1
func TestComponentPoolFactory(t *testing.T) {
	ctx := newTestContext(t)
	pools := ctx.Pools()
	pools.SetFactory(kindHealth, func() any {
		return &Health{Current: 100, Max: 100}
	})

	h := pools.Checkout(kindHealth).(*Health)
	if h.Current != 100 {
		t.Errorf("Factory-made component has wrong data: %+v", h)
	}

	recycled := &Health{Current: 1, Max: 100}
	pools.Return(kindHealth, recycled)
	if got := pools.Checkout(kindHealth); got != recycled {
		t.Error("Pooled component should take priority over the factory")
	}
}

// go test -run ^TestComponentLifecycleThroughPool$ . -count 1
func TestComponentLifecycleThroughPool(t *testing.T) {
	ctx := newTestContext(t)

	e1 := ctx.CreateEntity()
	v := &Velocity{VX: 5}
	e1.AddComponent(kindVelocity, v)
	e1.RemoveComponent(kindVelocity)

	// The removed value is available for the next add.
	e2 := ctx.CreateEntity()
	reused := ctx.Pools().Checkout(kindVelocity).(*Velocity)
	if reused != v {
		t.Fatal("Expected the removed component back from the pool")
	}
	reused.VX = 0
	e2.AddComponent(kindVelocity, reused)
	if e2.GetComponent(kindVelocity) != v {
		t.Error("Reused component not attached to the new entity")
	}
}

// go test -run ^TestComponentPoolKindOutOfRangePanics$ . -count 1
func TestComponentPoolKindOutOfRangePanics(t *testing.T) {
	ctx := newTestContext(t)
	mustPanic(t, func() { ctx.Pools().Checkout(totalKinds) })
	mustPanic(t, func() { ctx.Pools().Return(-1, &Position{}) })
}
