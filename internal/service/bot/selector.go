package bot

import (
	"encoding/binary"
	"sync"

	"lukechampine.com/frand"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	Intn(n int) int
}

// NewSource returns an entropy-seeded generator.
func NewSource() RandomSource {
	return frand.New()
}

// NewSeededSource returns a reproducible generator: the same seed always
// produces the same sequence.
func NewSeededSource(seed uint64) RandomSource {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// Selector breaks ties between equally scored moves. It is safe for
// concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng RandomSource
}

func NewSelector(rng RandomSource) *Selector {
	if rng == nil {
		rng = NewSource()
	}
	return &Selector{rng: rng}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Choose picks one of the tied moves uniformly at random.
func (s *Selector) Choose(tied []domain.Move) (domain.Move, error) {
	if len(tied) == 0 {
		return domain.Move{}, domain.ErrNoLegalMove
	}
	return tied[s.intn(len(tied))], nil
}

// RandomMove samples any column, and any letter for TOOT-OTTO. The move may
// be illegal; callers retry until one applies.
func (s *Selector) RandomMove(rules domain.Rules) domain.Move {
	move := domain.Move{Column: s.intn(domain.Columns)}
	if rules.Type() == domain.TootOtto {
		move.Symbol = domain.Symbols[s.intn(len(domain.Symbols))]
	}
	return move
}
