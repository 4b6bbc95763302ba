package memory

import (
	"context"
	"sync"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

// GameRepo keeps records in process memory, in insertion order. It serves
// local runs without a database and tests.
type GameRepo struct {
	mu      sync.RWMutex
	records []domain.GameRecord
	index   map[string]int
}

func NewGameRepo() *GameRepo {
	return &GameRepo{index: make(map[string]int)}
}

func (r *GameRepo) SaveGame(_ context.Context, rec domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[rec.GameNumber]; exists {
		return nil
	}
	r.index[rec.GameNumber] = len(r.records)
	r.records = append(r.records, rec)
	return nil
}

func (r *GameRepo) ListGames(_ context.Context) ([]domain.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.GameRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *GameRepo) GetGame(_ context.Context, gameNumber string) (domain.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[gameNumber]
	if !ok {
		return domain.GameRecord{}, domain.ErrRecordNotFound
	}
	return r.records[i], nil
}
