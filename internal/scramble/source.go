package scramble

import (
	"math/rand/v2"
	"sync"
)

// Source yields integers in [0, n). It is the only randomness the scrambler
// and catalog picks depend on.
type Source interface {
	IntN(n int) int
}

type systemSource struct{}

func (systemSource) IntN(n int) int { return rand.IntN(n) }

// SystemSource returns an unseeded source backed by the runtime generator.
// Safe for concurrent use.
func SystemSource() Source { return systemSource{} }

// seeded wraps a PCG generator; *rand.Rand is not goroutine-safe on its own.
type seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Seeded returns a deterministic source for tests and reproducible CLI output.
func Seeded(seed uint64) Source {
	return &seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
