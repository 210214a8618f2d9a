package queue

import "context"

// Publisher delivers domain events to a downstream backend.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NoopPublisher drops every event. It is used when no events backend is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

var _ Publisher = NoopPublisher{}
