package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers an event to all subscribers of its type.
func (b *Bus) Publish(ev Event) {
	// kelindar/event needs the concrete type for dispatch.
	switch e := ev.(type) {
	case InspectDoneEvent:
		event.Publish(b.dispatcher, e)
	case FindingEvent:
		event.Publish(b.dispatcher, e)
	case JoinStartedEvent:
		event.Publish(b.dispatcher, e)
	case JoinFinishedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a typed handler and returns an unsubscribe
// function. The handler's parameter type selects which events it
// receives.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(InspectDoneEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FindingEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(JoinStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(JoinFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel bridges callback subscriptions to a channel for
// select-loop consumers. Events are dropped when the channel is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
