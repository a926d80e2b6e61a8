// Package idgen provides pluggable ID generation for chunk records.
//
// The chunker accepts a Generator, making the ID strategy a startup-time
// decision: production runs use random UUIDs, tests use Sequential so that
// output is byte-for-byte reproducible.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUID returns a Generator producing random (version 4) UUID strings.
func UUID() Generator {
	return func() string {
		return uuid.NewString()
	}
}

// Sequential returns a Generator producing "<prefix>-000001", "<prefix>-000002", …
// Deterministic, for tests and idempotence checks.
func Sequential(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s-%06d", prefix, n.Add(1))
	}
}

// Default is the production strategy: random UUIDs, unique across a run.
var Default Generator = UUID()

// New produces an ID using the Default generator.
func New() string {
	return Default()
}
