// Package delivery defines the contract shared by the process entry points
// (HTTP API, notifier worker).
package delivery

import "context"

// Delivery is a long-running server started by the fx runtime.
// Serve blocks until the server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
