package ports

import "context"

// Topic names for in-process events.
const (
	// TopicHandlerError carries a HandlerError from the dispatch boundary
	// to the admin diagnostics subscriber.
	TopicHandlerError = "bot:handler_error"
)

// HandlerError is the payload of TopicHandlerError.
type HandlerError struct {
	Operation string
	ChatID    int64
	Err       string
}

// Event is a generic wrapper for any event payload.
type Event struct {
	Topic string
	Data  interface{}
}

// EventHandler is a function that can handle a specific event.
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for the in-process pub/sub system.
type EventBus interface {
	// Publish sends an event to all subscribers of a topic.
	Publish(ctx context.Context, topic string, data interface{}) error

	// Subscribe registers a handler for a specific topic.
	Subscribe(topic string, handler EventHandler)
}
