package ports

import (
	"context"
	"time"
)

// EventsTopic carries every listing-service lifecycle event.
const EventsTopic = "stay-marketplace.listing-service.events"

// EventEnvelope is the canonical shape of a listing-service domain event.
type EventEnvelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}

// EventPublisher delivers lifecycle events after a state change commits.
// Delivery is best effort; a publish failure never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
