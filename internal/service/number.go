package service

import (
	"math/rand"
	"sync"
)

// ticketNumberRange bounds generated ticket numbers to [0, ticketNumberRange).
const ticketNumberRange = 9999

// NumberGenerator hands out display numbers for new tickets. Numbers are not
// guaranteed unique.
type NumberGenerator interface {
	Next() int
}

type randNumberGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandNumberGenerator returns a generator seeded with seed. The same seed
// yields the same sequence.
func NewRandNumberGenerator(seed int64) NumberGenerator {
	return &randNumberGenerator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *randNumberGenerator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(ticketNumberRange)
}
