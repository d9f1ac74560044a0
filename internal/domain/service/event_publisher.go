package service

import (
	"context"
)

// Notification event kinds, carried in push data payloads so the mobile client
// can route taps to the right screen.
const (
	EventOfferReceived  = "offer_received"  // a seller submitted an offer on the buyer's list
	EventOfferAccepted  = "offer_accepted"  // the buyer accepted the seller's offer
	EventOfferRejected  = "offer_rejected"  // a sibling offer was accepted instead
	EventOrderShipped   = "order_shipped"   // the seller marked the order enviado
	EventOrderCompleted = "order_completed" // the buyer confirmed delivery; rating prompt
)

// NotificationEvent represents a marketplace event to be fanned out to the
// recipients' devices by the notifier worker.
type NotificationEvent struct {
	RequestID    string            `json:"request_id,omitempty"` // For distributed tracing
	Kind         string            `json:"kind"`
	RecipientIDs []string          `json:"recipient_ids"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data,omitempty"` // Entity references (list/offer/order IDs)
}

// EventPublisher defines the interface for publishing events to a message queue.
// Publishing is fire-and-forget relative to lifecycle transitions: a publish
// failure must never fail or roll back the transition that triggered it.
type EventPublisher interface {
	// PublishNotificationEvent publishes a notification event for async processing.
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
