// Package events publishes ledger changes to RabbitMQ for downstream consumers.
package events

import (
	"context"
	"time"
)

// Event is one ledger change. Type is one of the domain.Event* constants.
type Event struct {
	Type       string      `json:"type"`
	EntityID   string      `json:"entity_id"`
	GameName   string      `json:"game_name,omitempty"`
	Username   string      `json:"username,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
