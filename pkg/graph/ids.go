package graph

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator assigns ids to new nodes.
type IDGenerator interface {
	NewID(definitionID string) string
}

// UUIDGenerator produces "<definition>-<uuid>" ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(definitionID string) string {
	return definitionID + "-" + uuid.New().String()
}

// SequenceGenerator produces deterministic "<definition>-<n>" ids.
type SequenceGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceGenerator returns a generator whose first id ends in start.
func NewSequenceGenerator(start int) *SequenceGenerator {
	return &SequenceGenerator{next: start}
}

func (g *SequenceGenerator) NewID(definitionID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := definitionID + "-" + strconv.Itoa(g.next)
	g.next++

	return id
}

// ClockGenerator produces "<definition><unix millis>" ids, bumping the
// timestamp when two ids would otherwise collide within the same millisecond.
type ClockGenerator struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

func (g *ClockGenerator) NewID(definitionID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	ts := now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}

	g.last = ts

	return definitionID + strconv.FormatInt(ts, 10)
}
