package kumiai

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered on an EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// EventBus is the typed multicast channel a Context exposes for its coarse
// lifecycle events (EntityCreated, EntityWillBeDestroyed, EntityDestroyed,
// GroupCreated). Handlers are invoked synchronously, in subscription order,
// before the triggering mutation returns. A handler that panics propagates
// to the caller of the mutation; the bus neither catches nor suppresses it.
//
// Publish is allocation-free, so the bus is safe to leave wired on hot
// lifecycle paths.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]interface{}
	nextEventTypeID uint8
}

// Subscribe registers a handler function to be called when an event of type
// `T` is published. Handlers are stored in the order they are subscribed.
//
// This operation may allocate if it is the first subscription for a type or
// the internal handler list needs to grow.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type `T`.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	id := bus.getEventTypeID(t)
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]interface{}, 0, 4) // Preallocate small capacity to reduce reallocs
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type, synchronously and in subscription order.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type `T` to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		hs := bus.handlers[id]
		for _, h := range hs {
			h.(func(T))(event)
		}
	}
}

// Clear drops every registered handler while keeping the type registrations.
// Context.Reset uses this to recycle the lifecycle channel between sessions.
func (bus *EventBus) Clear() {
	for i := range bus.handlers {
		bus.handlers[i] = bus.handlers[i][:0]
	}
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	if int(id) >= MaxEventTypes {
		panic("ecs: too many event types")
	}
	bus.eventTypeMap[t] = id
	return id
}
