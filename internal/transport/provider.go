// Package transport implements brane's provider abstraction: a uniform
// send(method, params) surface backed by HTTP, WebSocket, or an
// in-process fake, plus WebSocket subscription multiplexing.
package transport

import (
	"context"
	"encoding/json"
)

// Provider is the transport-agnostic contract every PublicClient is built
// on: send a method call, get back the raw result payload or a typed error.
type Provider interface {
	// Send issues one JSON-RPC call and returns its decoded result payload.
	Send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)

	// Close releases any underlying connection. Idempotent.
	Close() error
}

// SubscriptionCallback receives each notification payload for a live
// subscription, invoked serially and in order.
type SubscriptionCallback func(payload json.RawMessage)

// Subscriber is implemented by transports capable of push subscriptions
// (currently only the WebSocket transport — HTTP has no such capability).
type Subscriber interface {
	Provider
	Subscribe(ctx context.Context, method string, params []interface{}, cb SubscriptionCallback) (Subscription, error)
}

// Subscription is a live eth_subscribe registration.
type Subscription interface {
	// ID is the node-assigned subscription id.
	ID() string
	// Close sends eth_unsubscribe and removes the local dispatch entry.
	// Idempotent.
	Close(ctx context.Context) error
}
