package draw

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"sync"
)

// RandomSource yields uniform integers in [0, n). Implementations must accept any n > 0.
type RandomSource interface {
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource returns a RandomSource backed by crypto/rand.
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("draw: crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a reproducible RandomSource, safe for concurrent use.
func NewSeededSource(seed int64) RandomSource {
	return &seededSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}
