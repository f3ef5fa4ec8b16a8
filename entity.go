package kumiai

import (
	"fmt"
	"strings"
)

// Entity is an identity plus a fixed-size table of component slots, one per
// kind. Entities are created and destroyed exclusively through a Context; the
// struct itself is pooled and reused, so external holders must go through the
// retain/release protocol to keep one alive past its destruction.
//
// Component values are expected to be reference-shaped (pointers): replaced
// and removed values are returned to the context's component pools, and the
// pool-return path compares values by identity.
type Entity struct {
	id             uint64
	name           string
	enabled        bool
	components     []any
	mask           bitmask256
	componentCount int
	retainers      map[any]struct{}
	releasing      bool
	pools          *ComponentPools
	info           *ContextInfo

	onComponentAdded    []ComponentChangedFunc
	onComponentRemoved  []ComponentChangedFunc
	onComponentReplaced []ComponentReplacedFunc
	onEntityReleased    []EntityFunc
	onDestroyRequested  []EntityFunc
}

// newEntity constructs an inert, pooled entity record. It carries no id and
// is not enabled until the context activates it.
func newEntity(totalKinds int, pools *ComponentPools, info *ContextInfo) *Entity {
	return &Entity{
		components: make([]any, totalKinds),
		retainers:  make(map[any]struct{}),
		pools:      pools,
		info:       info,
	}
}

// reactivate transitions a pooled entity back to the active state under a new
// id. The previous incarnation must have been fully released.
func (e *Entity) reactivate(id uint64, name string) {
	if len(e.retainers) != 0 {
		panic(&ReusedWhileRetainedError{Entity: e})
	}
	e.id = id
	e.name = name
	e.enabled = true
	e.releasing = false
}

// Id returns the entity's creation index. Ids increase strictly and are never
// handed out twice, even when the underlying storage is reused.
func (e *Entity) Id() uint64 {
	return e.id
}

// Name returns the optional debug name given at creation.
func (e *Entity) Name() string {
	return e.name
}

// Enabled reports whether the entity is active. It turns false the moment
// destruction begins and stays false until the storage is reused.
func (e *Entity) Enabled() bool {
	return e.enabled
}

// AddComponent occupies the slot for the kind with the given value and
// notifies all component-added observers exactly once.
//
// Panics with NotEnabledError if destruction has begun, and with
// AlreadyHasComponentError if the slot is already occupied.
func (e *Entity) AddComponent(kind int, component any) {
	e.checkKind(kind)
	if !e.enabled {
		panic(&NotEnabledError{Entity: e})
	}
	if e.components[kind] != nil {
		panic(&AlreadyHasComponentError{Entity: e, Kind: kind})
	}
	e.components[kind] = component
	e.mask.set(uint8(kind))
	e.componentCount++
	for _, fn := range e.onComponentAdded {
		fn(e, kind, component)
	}
}

// RemoveComponent clears the slot for the kind, notifies all
// component-removed observers exactly once, then returns the removed value to
// the component pool.
//
// Panics with NotEnabledError if destruction has begun, and with
// DoesNotHaveComponentError if the slot is empty.
func (e *Entity) RemoveComponent(kind int) {
	e.checkKind(kind)
	if !e.enabled {
		panic(&NotEnabledError{Entity: e})
	}
	if e.components[kind] == nil {
		panic(&DoesNotHaveComponentError{Entity: e, Kind: kind})
	}
	e.removeComponent(kind)
}

// removeComponent clears an occupied slot without the contract checks.
// Observers run before the value goes back to the pool, so they see it last.
func (e *Entity) removeComponent(kind int) {
	previous := e.components[kind]
	e.components[kind] = nil
	e.mask.unset(uint8(kind))
	e.componentCount--
	for _, fn := range e.onComponentRemoved {
		fn(e, kind, previous)
	}
	e.pools.Return(kind, previous)
}

// ReplaceComponent sets the slot for the kind to the given value: if the slot
// is occupied the previous value is swapped out and component-replaced
// observers fire; if it is empty the call behaves like AddComponent. It never
// fails on slot state, only on a disabled entity.
func (e *Entity) ReplaceComponent(kind int, component any) {
	e.checkKind(kind)
	if !e.enabled {
		panic(&NotEnabledError{Entity: e})
	}
	if e.components[kind] == nil {
		e.AddComponent(kind, component)
		return
	}
	previous := e.components[kind]
	e.components[kind] = component
	for _, fn := range e.onComponentReplaced {
		fn(e, kind, previous, component)
	}
	if previous != component {
		e.pools.Return(kind, previous)
	}
}

// GetComponent returns the value in the slot for the kind.
//
// Panics with DoesNotHaveComponentError if the slot is empty.
func (e *Entity) GetComponent(kind int) any {
	e.checkKind(kind)
	if e.components[kind] == nil {
		panic(&DoesNotHaveComponentError{Entity: e, Kind: kind})
	}
	return e.components[kind]
}

// HasComponent reports whether the slot for the kind is occupied.
func (e *Entity) HasComponent(kind int) bool {
	e.checkKind(kind)
	return e.components[kind] != nil
}

// HasComponents reports whether every given slot is occupied.
func (e *Entity) HasComponents(kinds ...int) bool {
	for _, kind := range kinds {
		if !e.HasComponent(kind) {
			return false
		}
	}
	return true
}

// HasAnyComponent reports whether at least one of the given slots is occupied.
func (e *Entity) HasAnyComponent(kinds ...int) bool {
	for _, kind := range kinds {
		if e.HasComponent(kind) {
			return true
		}
	}
	return false
}

// ComponentCount returns the number of occupied slots.
func (e *Entity) ComponentCount() int {
	return e.componentCount
}

// RemoveAllComponents clears every occupied slot in ascending kind order.
// Each clear fires the same component-removed notification as a single
// removal, so groups observe the entity leaving kind by kind.
func (e *Entity) RemoveAllComponents() {
	if !e.enabled {
		panic(&NotEnabledError{Entity: e})
	}
	for kind := range e.components {
		if e.components[kind] != nil {
			e.removeComponent(kind)
		}
	}
}

// Retain records the owner as a holder of this entity, keeping it from being
// reclaimed after destruction until the owner releases it.
//
// Panics with AlreadyRetainedError if the owner already holds the entity.
func (e *Entity) Retain(owner any) {
	if _, ok := e.retainers[owner]; ok {
		panic(&AlreadyRetainedError{Entity: e, Owner: owner})
	}
	e.retainers[owner] = struct{}{}
}

// Release drops the owner's hold. When the last hold is dropped the
// entity-released notification fires exactly once, even if a listener
// re-retains and re-releases during the callback chain.
//
// Panics with NotRetainedError if the owner never retained the entity.
func (e *Entity) Release(owner any) {
	if _, ok := e.retainers[owner]; !ok {
		panic(&NotRetainedError{Entity: e, Owner: owner})
	}
	delete(e.retainers, owner)
	if len(e.retainers) == 0 && !e.releasing {
		e.releasing = true
		for _, fn := range e.onEntityReleased {
			fn(e)
		}
		e.releasing = false
	}
}

// RetainCount returns the number of owners currently holding the entity.
func (e *Entity) RetainCount() int {
	return len(e.retainers)
}

// IsRetainedBy reports whether the owner currently holds the entity.
func (e *Entity) IsRetainedBy(owner any) bool {
	_, ok := e.retainers[owner]
	return ok
}

// Destroy requests destruction of the entity through its owning context. The
// destroy-requested notification is consumed by the context, which runs the
// full teardown before the call returns.
func (e *Entity) Destroy() {
	if !e.enabled {
		panic(&NotEnabledError{Entity: e})
	}
	for _, fn := range e.onDestroyRequested {
		fn(e)
	}
}

// destroy runs the entity-local part of destruction: clear every slot (with
// the usual removal notifications), drop the mutation observers, disable.
// The released observers stay, the context still needs that channel.
func (e *Entity) destroy() {
	e.RemoveAllComponents()
	e.onComponentAdded = nil
	e.onComponentRemoved = nil
	e.onComponentReplaced = nil
	e.onDestroyRequested = nil
	e.enabled = false
}

// removeAllObservers drops every notification hook, including released.
func (e *Entity) removeAllObservers() {
	e.onComponentAdded = nil
	e.onComponentRemoved = nil
	e.onComponentReplaced = nil
	e.onDestroyRequested = nil
	e.onEntityReleased = nil
}

// OnComponentAdded registers an observer for component additions. Observers
// run synchronously in registration order.
func (e *Entity) OnComponentAdded(fn ComponentChangedFunc) {
	e.onComponentAdded = append(e.onComponentAdded, fn)
}

// OnComponentRemoved registers an observer for component removals.
func (e *Entity) OnComponentRemoved(fn ComponentChangedFunc) {
	e.onComponentRemoved = append(e.onComponentRemoved, fn)
}

// OnComponentReplaced registers an observer for in-place replacements.
func (e *Entity) OnComponentReplaced(fn ComponentReplacedFunc) {
	e.onComponentReplaced = append(e.onComponentReplaced, fn)
}

// OnEntityReleased registers an observer fired once when the last holder
// releases the entity.
func (e *Entity) OnEntityReleased(fn EntityFunc) {
	e.onEntityReleased = append(e.onEntityReleased, fn)
}

// OnDestroyRequested registers an observer fired when Destroy is called.
func (e *Entity) OnDestroyRequested(fn EntityFunc) {
	e.onDestroyRequested = append(e.onDestroyRequested, fn)
}

// checkKind rejects slot indices outside the context's declared range.
func (e *Entity) checkKind(kind int) {
	if kind < 0 || kind >= len(e.components) {
		panic(&KindOutOfRangeError{Kind: kind, Total: len(e.components)})
	}
}

// componentName resolves a kind index to its human-readable name.
func (e *Entity) componentName(kind int) string {
	if e.info != nil && kind >= 0 && kind < len(e.info.ComponentNames) {
		return e.info.ComponentNames[kind]
	}
	return fmt.Sprintf("Kind_%d", kind)
}

// String renders the entity with its occupied component names, e.g.
// "Entity_3(Position, Velocity)".
func (e *Entity) String() string {
	var sb strings.Builder
	if e.name != "" {
		sb.WriteString(e.name)
	} else {
		fmt.Fprintf(&sb, "Entity_%d", e.id)
	}
	sb.WriteByte('(')
	first := true
	for kind, c := range e.components {
		if c == nil {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		sb.WriteString(e.componentName(kind))
		first = false
	}
	sb.WriteByte(')')
	return sb.String()
}
