// Package kumiai implements a reactive, group-indexed Entity-Component-System
// core for Go.
//
// Features:
// - Context-owned entity lifecycle with max 256 component kinds.
// - Incrementally maintained groups: no per-frame rescans of the population.
// - Bitmask matchers used as value-equality keys for the canonical group cache.
// - Retain/release protocol for safe deferred destruction under external holders.
// - Pooled entity and component storage reused across destroy/create cycles.
// - Synchronous, ordered event delivery for entity and lifecycle changes.
package kumiai

// MaxComponentKinds defines the maximum number of component kinds a Context
// can be declared with. This value is fixed at 256.
const MaxComponentKinds = 256

// EntityFunc observes a plain entity lifecycle change (released,
// destroy-requested).
type EntityFunc func(e *Entity)

// ComponentChangedFunc observes a component being added to or removed from an
// entity. The component value is the one added, or the one that was removed.
type ComponentChangedFunc func(e *Entity, kind int, component any)

// ComponentReplacedFunc observes a component replacement on an entity,
// carrying both the previous and the new value.
type ComponentReplacedFunc func(e *Entity, kind int, previous, current any)

// GroupChangedFunc observes an entity entering or leaving a group. The kind
// and component identify the mutation that caused the membership transition.
type GroupChangedFunc func(g *Group, e *Entity, kind int, component any)

// GroupUpdatedFunc observes an in-place component replacement on a group
// member. Membership is unaffected by this path.
type GroupUpdatedFunc func(g *Group, e *Entity, kind int, previous, current any)
