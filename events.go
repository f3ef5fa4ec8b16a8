package kumiai

// Lifecycle event payloads published on a context's EventBus. Subscribe with
// the generic Subscribe function:
//
//	kumiai.Subscribe(ctx.Events(), func(ev kumiai.EntityCreated) {
//	    // ...
//	})

// EntityCreated is published after a new entity has been activated and added
// to the live population.
type EntityCreated struct {
	Context *Context
	Entity  *Entity
}

// EntityWillBeDestroyed is published before an entity's slots are cleared.
// The entity is already removed from the live population but still carries
// its components.
type EntityWillBeDestroyed struct {
	Context *Context
	Entity  *Entity
}

// EntityDestroyed is published after the entity's slots have been cleared and
// it has been disabled, before the context drops its own retention.
type EntityDestroyed struct {
	Context *Context
	Entity  *Entity
}

// GroupCreated is published when GetGroup constructs a group for a matcher
// seen for the first time. Cache hits do not publish.
type GroupCreated struct {
	Context *Context
	Group   *Group
}
