// Package persistence provides the key/value storage abstraction that holds the saved workflow graph.
package persistence

import (
	"context"
)

// GraphKey is the well-known key the whole graph blob is stored under.
const GraphKey = "orpheusflows:graph"

// Medium is a key/value blob store. Implementations only ever see whole values.
type Medium interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
