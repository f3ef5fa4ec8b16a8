package kumiai

import (
	"cmp"
	"fmt"
	"slices"
)

// GroupTransition is the membership outcome of re-evaluating one entity
// against a group's matcher.
type GroupTransition uint8

const (
	// GroupUnchanged means the entity's membership did not change.
	GroupUnchanged GroupTransition = iota
	// GroupEntityAdded means the entity entered the group.
	GroupEntityAdded
	// GroupEntityRemoved means the entity left the group.
	GroupEntityRemoved
)

// Group is the materialized, incrementally maintained result set of one
// matcher. Between mutation notifications its members are exactly the live
// entities the matcher accepts. Groups hold non-owning references: they never
// decide entity lifetime.
//
// Groups are obtained from a Context with GetGroup and are canonical per
// matcher value; never construct or mutate one directly.
type Group struct {
	matcher  Matcher
	entities map[*Entity]struct{}
	cache    []*Entity

	onEntityAdded   []GroupChangedFunc
	onEntityRemoved []GroupChangedFunc
	onEntityUpdated []GroupUpdatedFunc
}

// newGroup creates an empty group for the matcher. The context seeds it
// silently against the current population.
func newGroup(matcher Matcher) *Group {
	return &Group{
		matcher:  matcher,
		entities: make(map[*Entity]struct{}),
	}
}

// Matcher returns the predicate this group materializes.
func (g *Group) Matcher() Matcher {
	return g.matcher
}

// handleEntity re-evaluates membership for the entity and applies the
// resulting transition. Events are not fired here: the context collects
// transitions across all subscribed groups first, then notifies.
func (g *Group) handleEntity(e *Entity) GroupTransition {
	if g.matcher.Matches(e) {
		if _, ok := g.entities[e]; !ok {
			g.entities[e] = struct{}{}
			g.cache = nil
			return GroupEntityAdded
		}
	} else if _, ok := g.entities[e]; ok {
		delete(g.entities, e)
		g.cache = nil
		return GroupEntityRemoved
	}
	return GroupUnchanged
}

// handleEntitySilently applies the same membership update as handleEntity
// with no observable transition. Used only when the context seeds a freshly
// created group: the group did not "just gain" those members, it starts with
// them.
func (g *Group) handleEntitySilently(e *Entity) {
	g.handleEntity(e)
}

// updateEntity rebroadcasts an in-place component replacement to the group's
// updated observers. Membership is not touched: a replace keeps the slot
// occupied, so the matcher verdict cannot change.
func (g *Group) updateEntity(e *Entity, kind int, previous, current any) {
	if _, ok := g.entities[e]; !ok {
		return
	}
	for _, fn := range g.onEntityUpdated {
		fn(g, e, kind, previous, current)
	}
}

// notifyTransition fires the observers for a collected transition.
func (g *Group) notifyTransition(t GroupTransition, e *Entity, kind int, component any) {
	switch t {
	case GroupEntityAdded:
		for _, fn := range g.onEntityAdded {
			fn(g, e, kind, component)
		}
	case GroupEntityRemoved:
		for _, fn := range g.onEntityRemoved {
			fn(g, e, kind, component)
		}
	}
}

// ContainsEntity reports whether the entity is currently a member.
func (g *Group) ContainsEntity(e *Entity) bool {
	_, ok := g.entities[e]
	return ok
}

// Count returns the number of members.
func (g *Group) Count() int {
	return len(g.entities)
}

// GetEntities returns the members ordered by creation index. The snapshot is
// cached until the next membership change and is owned by the group; copy it
// for long-term use.
func (g *Group) GetEntities() []*Entity {
	if g.cache == nil {
		g.cache = make([]*Entity, 0, len(g.entities))
		for e := range g.entities {
			g.cache = append(g.cache, e)
		}
		slices.SortFunc(g.cache, func(a, b *Entity) int {
			return cmp.Compare(a.id, b.id)
		})
	}
	return g.cache
}

// GetSingleEntity returns the sole member, or nil when the group is empty.
// More than one member is a violation of the caller-side uniqueness
// convention; the group fails loud rather than picking one.
func (g *Group) GetSingleEntity() *Entity {
	switch len(g.entities) {
	case 0:
		return nil
	case 1:
		for e := range g.entities {
			return e
		}
	}
	panic(fmt.Sprintf("ecs: group %s has %d entities, expected at most one",
		g.matcher, len(g.entities)))
}

// OnEntityAdded registers an observer for membership additions. Observers
// run synchronously in registration order, after every subscribed group has
// been updated for the triggering mutation.
func (g *Group) OnEntityAdded(fn GroupChangedFunc) {
	g.onEntityAdded = append(g.onEntityAdded, fn)
}

// OnEntityRemoved registers an observer for membership removals.
func (g *Group) OnEntityRemoved(fn GroupChangedFunc) {
	g.onEntityRemoved = append(g.onEntityRemoved, fn)
}

// OnEntityUpdated registers an observer for in-place replacements on members.
func (g *Group) OnEntityUpdated(fn GroupUpdatedFunc) {
	g.onEntityUpdated = append(g.onEntityUpdated, fn)
}

// RemoveAllObservers drops every registered group observer.
func (g *Group) RemoveAllObservers() {
	g.onEntityAdded = nil
	g.onEntityRemoved = nil
	g.onEntityUpdated = nil
}

// String renders the group's matcher and member count.
func (g *Group) String() string {
	return fmt.Sprintf("Group(%s, %d entities)", g.matcher, len(g.entities))
}
