package kumiai

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"
)

// ContextInfo supplies the human-readable metadata for a context: its name
// and one name per component kind, used only for diagnostics.
type ContextInfo struct {
	Name           string
	ComponentNames []string
}

// defaultContextInfo builds placeholder metadata for contexts created
// without any.
func defaultContextInfo(totalKinds int) *ContextInfo {
	names := make([]string, totalKinds)
	for i := range names {
		names[i] = fmt.Sprintf("Kind_%d", i)
	}
	return &ContextInfo{Name: "Unnamed Context", ComponentNames: names}
}

// groupChange is one collected membership transition, fired after every
// subscribed group has been updated for the triggering mutation.
type groupChange struct {
	group      *Group
	transition GroupTransition
}

// Context owns the entity population, the canonical group cache, the
// per-kind group subscriber lists, the reusable-entity pool, and the
// deferred-destruction accounting. It is the only writer of the population
// and the only router of change notifications to groups.
//
// A context expects a single logical writer per update tick. Id allocation
// is atomic, which keeps read-only lookups on other goroutines safe alongside
// entity creation, but nothing else in the structure tolerates concurrent
// mutation; callers needing that must serialize access externally.
type Context struct {
	info          *ContextInfo
	totalKinds    int
	creationIndex atomic.Uint64

	entities         map[*Entity]struct{}
	entitiesCache    []*Entity
	entitiesByID     map[uint64]*Entity
	reusableEntities []*Entity // LIFO
	retainedEntities map[*Entity]struct{}

	groups        map[matcherKey]*Group
	groupsForKind [][]*Group
	changeBuffers [][]groupChange

	pools     *ComponentPools
	bus       *EventBus
	resetting bool

	// Handler funcs wired into every entity at activation, built once so
	// creation stays free of per-entity closures.
	handleChanged  ComponentChangedFunc
	handleReplaced ComponentReplacedFunc
	handleReleased EntityFunc
	handleDestroy  EntityFunc
}

// NewContext creates a context for the given number of component kinds. Pass
// nil info to get generated placeholder metadata.
//
// Parameters:
//   - totalKinds: The fixed number of component kinds, 1 to MaxComponentKinds.
//   - info: Diagnostic metadata; its ComponentNames length must equal totalKinds.
//
// Returns:
//   - The newly created Context.
func NewContext(totalKinds int, info *ContextInfo) *Context {
	if totalKinds <= 0 || totalKinds > MaxComponentKinds {
		panic("ecs: total component kinds out of range")
	}
	if info == nil {
		info = defaultContextInfo(totalKinds)
	}
	if len(info.ComponentNames) != totalKinds {
		panic(&ContextInfoError{Info: info, Total: totalKinds})
	}
	c := &Context{
		info:             info,
		totalKinds:       totalKinds,
		entities:         make(map[*Entity]struct{}),
		entitiesByID:     make(map[uint64]*Entity),
		retainedEntities: make(map[*Entity]struct{}),
		groups:           make(map[matcherKey]*Group),
		groupsForKind:    make([][]*Group, totalKinds),
		pools:            newComponentPools(totalKinds),
		bus:              &EventBus{},
	}
	c.handleChanged = c.updateGroupsComponentAddedOrRemoved
	c.handleReplaced = c.updateGroupsComponentReplaced
	c.handleReleased = c.entityReleased
	c.handleDestroy = c.destroyEntity
	return c
}

// CreateEntity activates a new entity under the next creation index, reusing
// pooled storage when available. The optional name is a debug label.
//
// Panics with InvalidStateError when invoked while the context is resetting.
func (c *Context) CreateEntity(name ...string) *Entity {
	if c.resetting {
		panic(&InvalidStateError{Context: c, Op: "CreateEntity"})
	}
	var debugName string
	if len(name) > 0 {
		debugName = name[0]
	}
	id := c.creationIndex.Add(1)
	var e *Entity
	if n := len(c.reusableEntities); n > 0 {
		e = c.reusableEntities[n-1]
		c.reusableEntities[n-1] = nil
		c.reusableEntities = c.reusableEntities[:n-1]
	} else {
		e = newEntity(c.totalKinds, c.pools, c.info)
	}
	e.reactivate(id, debugName)
	c.entities[e] = struct{}{}
	c.entitiesByID[id] = e
	c.entitiesCache = nil
	e.Retain(c)
	e.OnComponentAdded(c.handleChanged)
	e.OnComponentRemoved(c.handleChanged)
	e.OnComponentReplaced(c.handleReplaced)
	e.OnDestroyRequested(c.handleDestroy)
	e.OnEntityReleased(c.handleReleased)
	Publish(c.bus, EntityCreated{Context: c, Entity: e})
	return e
}

// DestroyEntity begins destruction of an entity: groups observe it leaving
// slot by slot, lifecycle events fire, and the storage is reclaimed now or,
// when external holders remain, once the last of them releases.
//
// Panics with UnknownEntityError if the context does not track the entity.
func (c *Context) DestroyEntity(e *Entity) {
	if _, ok := c.entities[e]; !ok {
		panic(&UnknownEntityError{Context: c, Entity: e})
	}
	e.Destroy()
}

// destroyEntity is the destroy-requested hook: the actual teardown.
func (c *Context) destroyEntity(e *Entity) {
	if _, ok := c.entities[e]; !ok {
		panic(&UnknownEntityError{Context: c, Entity: e})
	}
	delete(c.entities, e)
	delete(c.entitiesByID, e.id)
	c.entitiesCache = nil
	Publish(c.bus, EntityWillBeDestroyed{Context: c, Entity: e})
	e.destroy()
	Publish(c.bus, EntityDestroyed{Context: c, Entity: e})
	if e.RetainCount() > 1 {
		// External holders remain; reclamation waits on them.
		c.retainedEntities[e] = struct{}{}
	}
	e.Release(c)
}

// entityReleased is the entity-released hook: the last external holder let
// go, so the storage can be pooled.
func (c *Context) entityReleased(e *Entity) {
	if e.enabled {
		panic(&NotDestroyedError{Entity: e})
	}
	e.removeAllObservers()
	delete(c.retainedEntities, e)
	c.reusableEntities = append(c.reusableEntities, e)
}

// DestroyAllEntities destroys every live entity, then fails loud if any of
// them is still held by an external owner.
//
// Panics with StillRetainedError carrying the offending entities.
func (c *Context) DestroyAllEntities() {
	for _, e := range c.GetEntities() {
		c.DestroyEntity(e)
	}
	if len(c.retainedEntities) > 0 {
		retained := make([]*Entity, 0, len(c.retainedEntities))
		for e := range c.retainedEntities {
			retained = append(retained, e)
		}
		slices.SortFunc(retained, func(a, b *Entity) int {
			return cmp.Compare(a.id, b.id)
		})
		panic(&StillRetainedError{Entities: retained})
	}
}

// HasEntity reports whether the context currently tracks the entity.
func (c *Context) HasEntity(e *Entity) bool {
	_, ok := c.entities[e]
	return ok
}

// Count returns the number of live entities.
func (c *Context) Count() int {
	return len(c.entities)
}

// GetEntity returns the live entity with the given id, or nil. O(1).
func (c *Context) GetEntity(id uint64) *Entity {
	return c.entitiesByID[id]
}

// GetEntities returns all live entities ordered by creation index. The
// snapshot is cached until the next create or destroy and is owned by the
// context; copy it for long-term use.
func (c *Context) GetEntities() []*Entity {
	if c.entitiesCache == nil {
		c.entitiesCache = make([]*Entity, 0, len(c.entities))
		for e := range c.entities {
			c.entitiesCache = append(c.entitiesCache, e)
		}
		slices.SortFunc(c.entitiesCache, func(a, b *Entity) int {
			return cmp.Compare(a.id, b.id)
		})
	}
	return c.entitiesCache
}

// GetGroup returns the canonical group for the matcher, constructing and
// seeding it on first request. Seeding is silent: the group starts with its
// construction-time members instead of observing them as additions.
// Subsequent requests with a value-equal matcher return the same instance.
//
// The matcher must require at least one kind to be present (all-of or
// any-of). An absence-only matcher has no mutation channel that could
// maintain its membership, so it is rejected with a panic.
func (c *Context) GetGroup(matcher Matcher) *Group {
	key := matcher.key()
	if g, ok := c.groups[key]; ok {
		return g
	}
	if matcher.allOf.isEmpty() && matcher.anyOf.isEmpty() {
		panic("ecs: matcher requires no component kind to be present")
	}
	for _, kind := range matcher.Indices() {
		if kind >= c.totalKinds {
			panic(&KindOutOfRangeError{Kind: kind, Total: c.totalKinds})
		}
	}
	g := newGroup(matcher)
	for _, e := range c.GetEntities() {
		g.handleEntitySilently(e)
	}
	c.groups[key] = g
	for _, kind := range matcher.Indices() {
		c.groupsForKind[kind] = append(c.groupsForKind[kind], g)
	}
	Publish(c.bus, GroupCreated{Context: c, Group: g})
	return g
}

// GetSingleEntity returns the sole entity carrying the kind, or nil. Layered
// on the group for "has kind"; more than one carrier fails loud.
func (c *Context) GetSingleEntity(kind int) *Entity {
	return c.GetGroup(AllOf(kind)).GetSingleEntity()
}

// GetUnique returns the unique component value for the kind, if any entity
// carries it.
func (c *Context) GetUnique(kind int) (any, bool) {
	e := c.GetSingleEntity(kind)
	if e == nil {
		return nil, false
	}
	return e.GetComponent(kind), true
}

// AddUnique creates a new entity carrying the kind, enforcing the "at most
// one carrier" convention.
//
// Returns AlreadyUniqueError when another entity already carries the kind;
// use ReplaceUnique to reuse the existing carrier instead.
func (c *Context) AddUnique(kind int, component any) (*Entity, error) {
	if c.GetSingleEntity(kind) != nil {
		return nil, &AlreadyUniqueError{Kind: kind, Name: c.componentName(kind)}
	}
	e := c.CreateEntity()
	e.AddComponent(kind, component)
	return e, nil
}

// ReplaceUnique sets the unique component value for the kind, reusing the
// existing carrier or creating one.
func (c *Context) ReplaceUnique(kind int, component any) *Entity {
	e := c.GetSingleEntity(kind)
	if e == nil {
		e = c.CreateEntity()
		e.AddComponent(kind, component)
		return e
	}
	e.ReplaceComponent(kind, component)
	return e
}

// Reset destroys all entities, rewinds id allocation to its initial value,
// drops pooled component values, and clears all registered lifecycle and
// group listeners. Groups themselves survive: the canonical cache stays
// valid across sessions. Used to fully recycle a context between logical
// sessions.
func (c *Context) Reset() {
	c.resetting = true
	defer func() { c.resetting = false }()
	c.DestroyAllEntities()
	c.creationIndex.Store(0)
	c.pools.clear()
	for _, g := range c.groups {
		g.RemoveAllObservers()
	}
	c.bus.Clear()
}

// updateGroupsComponentAddedOrRemoved is the component add/remove hook: every
// group subscribed to the mutated kind re-evaluates membership, then the
// collected transitions fire. The collection buffer is pooled so routing does
// not allocate per mutation, and checkout/return keeps nested mutations from
// listener callbacks off each other's buffers.
func (c *Context) updateGroupsComponentAddedOrRemoved(e *Entity, kind int, component any) {
	groups := c.groupsForKind[kind]
	if len(groups) == 0 {
		return
	}
	changes := c.checkoutChangeBuffer()
	for _, g := range groups {
		if t := g.handleEntity(e); t != GroupUnchanged {
			changes = append(changes, groupChange{group: g, transition: t})
		}
	}
	for _, ch := range changes {
		ch.group.notifyTransition(ch.transition, e, kind, component)
	}
	c.returnChangeBuffer(changes)
}

// updateGroupsComponentReplaced is the component replace hook: membership is
// unaffected, subscribed groups just rebroadcast the update in place.
func (c *Context) updateGroupsComponentReplaced(e *Entity, kind int, previous, current any) {
	for _, g := range c.groupsForKind[kind] {
		g.updateEntity(e, kind, previous, current)
	}
}

// checkoutChangeBuffer pops a scratch transition buffer, or makes one.
func (c *Context) checkoutChangeBuffer() []groupChange {
	if n := len(c.changeBuffers); n > 0 {
		buf := c.changeBuffers[n-1]
		c.changeBuffers = c.changeBuffers[:n-1]
		return buf[:0]
	}
	return make([]groupChange, 0, 8)
}

// returnChangeBuffer pushes a scratch buffer back for reuse.
func (c *Context) returnChangeBuffer(buf []groupChange) {
	c.changeBuffers = append(c.changeBuffers, buf)
}

// Events returns the context's lifecycle event bus.
func (c *Context) Events() *EventBus {
	return c.bus
}

// Pools returns the context's component pool set.
func (c *Context) Pools() *ComponentPools {
	return c.pools
}

// Info returns the context's diagnostic metadata.
func (c *Context) Info() *ContextInfo {
	return c.info
}

// TotalComponentKinds returns the fixed number of component kinds.
func (c *Context) TotalComponentKinds() int {
	return c.totalKinds
}

// ReusableEntitiesCount returns the number of pooled entity records.
func (c *Context) ReusableEntitiesCount() int {
	return len(c.reusableEntities)
}

// RetainedEntitiesCount returns the number of destroyed entities still held
// by external owners.
func (c *Context) RetainedEntitiesCount() int {
	return len(c.retainedEntities)
}

// componentName resolves a kind index to its human-readable name.
func (c *Context) componentName(kind int) string {
	if kind >= 0 && kind < len(c.info.ComponentNames) {
		return c.info.ComponentNames[kind]
	}
	return fmt.Sprintf("Kind_%d", kind)
}

// String renders the context name and population size.
func (c *Context) String() string {
	return fmt.Sprintf("%s(%d entities)", c.info.Name, len(c.entities))
}
