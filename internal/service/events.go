package service

import "context"

// EventPublisher is satisfied by mykafka.Producer. Event publishing is
// best-effort: failures are logged and never fail the request.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

const UserEventsTopic = "user_events"

const TaskEventsTopic = "task_events"
