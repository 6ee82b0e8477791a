package rowecs

import "reflect"

// EventBus delivers typed events to subscribed handlers. Handlers for a
// type run synchronously, in subscription order. The zero value is ready to
// use.
type EventBus struct {
	ids      map[reflect.Type]int
	handlers [][]any
}

// Subscribe registers handler for events of type T.
//
// Parameters:
//   - bus: The EventBus to subscribe to.
//   - handler: Called with every published T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.typeID(reflect.TypeFor[T]())
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish calls every handler subscribed to T with event.
//
// Parameters:
//   - bus: The EventBus to publish on.
//   - event: The value passed to each handler.
func Publish[T any](bus *EventBus, event T) {
	id, ok := bus.ids[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[id] {
		h.(func(T))(event)
	}
}

// HasSubscribers reports whether any handler listens for T.
func HasSubscribers[T any](bus *EventBus) bool {
	id, ok := bus.ids[reflect.TypeFor[T]()]
	return ok && len(bus.handlers[id]) > 0
}

func (bus *EventBus) typeID(t reflect.Type) int {
	if bus.ids == nil {
		bus.ids = make(map[reflect.Type]int)
	}
	if id, ok := bus.ids[t]; ok {
		return id
	}
	id := len(bus.handlers)
	bus.ids[t] = id
	bus.handlers = append(bus.handlers, make([]any, 0, 4))
	return id
}
