package kumiai

import "fmt"

// Programming-contract violations are fatal: the core panics with one of the
// typed errors below at the offending call site. They are exported so tests
// and crash handlers can recover and inspect them. The only recoverable
// condition in the core is AlreadyUniqueError, which is returned, not raised.

// NotEnabledError reports a mutation attempted on an entity after its
// destruction began (or on one that was never activated).
type NotEnabledError struct {
	Entity *Entity
}

func (e *NotEnabledError) Error() string {
	return fmt.Sprintf("ecs: cannot modify %s, entity is not enabled", e.Entity)
}

// AlreadyHasComponentError reports an AddComponent on an occupied slot.
type AlreadyHasComponentError struct {
	Entity *Entity
	Kind   int
}

func (e *AlreadyHasComponentError) Error() string {
	return fmt.Sprintf("ecs: %s already has component %s",
		e.Entity, e.Entity.componentName(e.Kind))
}

// DoesNotHaveComponentError reports a RemoveComponent or GetComponent on an
// empty slot.
type DoesNotHaveComponentError struct {
	Entity *Entity
	Kind   int
}

func (e *DoesNotHaveComponentError) Error() string {
	return fmt.Sprintf("ecs: %s does not have component %s",
		e.Entity, e.Entity.componentName(e.Kind))
}

// KindOutOfRangeError reports a component kind index outside the range the
// context was declared with.
type KindOutOfRangeError struct {
	Kind  int
	Total int
}

func (e *KindOutOfRangeError) Error() string {
	return fmt.Sprintf("ecs: component kind %d out of range (context has %d kinds)",
		e.Kind, e.Total)
}

// AlreadyRetainedError reports a Retain from an owner that already holds the
// entity.
type AlreadyRetainedError struct {
	Entity *Entity
	Owner  any
}

func (e *AlreadyRetainedError) Error() string {
	return fmt.Sprintf("ecs: %s is already retained by owner %v", e.Entity, e.Owner)
}

// NotRetainedError reports a Release from an owner that never retained the
// entity.
type NotRetainedError struct {
	Entity *Entity
	Owner  any
}

func (e *NotRetainedError) Error() string {
	return fmt.Sprintf("ecs: owner %v does not retain %s", e.Owner, e.Entity)
}

// UnknownEntityError reports a destroy of an entity the context does not
// currently track.
type UnknownEntityError struct {
	Context *Context
	Entity  *Entity
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("ecs: %s does not contain %s", e.Context, e.Entity)
}

// StillRetainedError reports a DestroyAllEntities that found entities still
// held by external owners after every destroy completed. A collaborator
// forgot to release.
type StillRetainedError struct {
	Entities []*Entity
}

func (e *StillRetainedError) Error() string {
	return fmt.Sprintf("ecs: %d entities are still retained after destroy-all", len(e.Entities))
}

// NotDestroyedError reports an entity whose last holder released it while it
// was still enabled; reclamation is only legal after destruction.
type NotDestroyedError struct {
	Entity *Entity
}

func (e *NotDestroyedError) Error() string {
	return fmt.Sprintf("ecs: cannot reclaim %s, entity is not destroyed", e.Entity)
}

// ReusedWhileRetainedError reports a pooled entity being reactivated while an
// external holder still retains its previous incarnation.
type ReusedWhileRetainedError struct {
	Entity *Entity
}

func (e *ReusedWhileRetainedError) Error() string {
	return fmt.Sprintf("ecs: cannot reuse %s, entity is still retained", e.Entity)
}

// ContextInfoError reports context metadata whose component-name count does
// not match the declared number of component kinds.
type ContextInfoError struct {
	Info  *ContextInfo
	Total int
}

func (e *ContextInfoError) Error() string {
	return fmt.Sprintf("ecs: context info %q has %d component names, expected %d",
		e.Info.Name, len(e.Info.ComponentNames), e.Total)
}

// InvalidStateError reports an operation invoked while the context is in the
// middle of a reset.
type InvalidStateError struct {
	Context *Context
	Op      string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("ecs: %s called on %s during reset", e.Op, e.Context)
}

// AlreadyUniqueError is returned by AddUnique when another entity already
// carries the kind. Recoverable: callers may test or use ReplaceUnique.
type AlreadyUniqueError struct {
	Kind int
	Name string
}

func (e *AlreadyUniqueError) Error() string {
	return fmt.Sprintf("ecs: an entity with unique component %s already exists", e.Name)
}
