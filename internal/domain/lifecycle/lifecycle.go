// Package lifecycle holds the marketplace state machine: the legal status
// transitions for shopping lists, offers and orders, and who may trigger them.
// It is pure logic with no storage dependencies so the rules can be tested in
// isolation; the usecase layer consults it before any write.
package lifecycle

import "time"

// DefaultTimeout bounds startup and shutdown operations (server drain, DB ping).
const DefaultTimeout = 10 * time.Second
