// Package ident generates opaque session identifiers.
//
// Identifiers are UUID-shaped strings. The usual source is the
// platform's secure randomness; when that is unavailable a seeded
// pseudo-random fallback keeps the client functional. Fallback
// identifiers are not cryptographically secure; session identifiers
// are partition keys, not secrets.
package ident

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Generator produces fresh session identifiers.
type Generator interface {
	NewID() string
}

// New probes the secure randomness source once at construction and
// returns a crypto-backed Generator when it works, the pseudo-random
// fallback otherwise. The selection never changes afterwards.
func New() Generator {
	if _, err := uuid.NewRandom(); err != nil {
		return NewFallback(time.Now().UnixNano())
	}
	return cryptoGenerator{}
}

type cryptoGenerator struct{}

func (cryptoGenerator) NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// The source worked at probe time; if it degrades later we
		// still owe the caller an identifier.
		return NewFallback(time.Now().UnixNano()).NewID()
	}
	return id.String()
}

// fallbackGenerator derives UUID-shaped identifiers from a seeded
// pseudo-random stream. Not safe for concurrent use; the client's event
// loop is single-threaded.
type fallbackGenerator struct {
	rng *rand.Rand
}

// NewFallback creates the pseudo-random Generator with the given seed.
// Exported for deterministic tests.
func NewFallback(seed int64) Generator {
	return &fallbackGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *fallbackGenerator) NewID() string {
	var id uuid.UUID
	g.rng.Read(id[:])
	// Stamp RFC 4122 version 4 and variant bits so the result parses as
	// a regular random UUID.
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}
