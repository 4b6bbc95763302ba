package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/pkg/uid"
)

const gamesCacheKey = "games:all"

type Repository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
	ListGames(ctx context.Context) ([]domain.GameRecord, error)
	GetGame(ctx context.Context, gameNumber string) (domain.GameRecord, error)
}

// Cache holds the serialized games list. Any error from Get is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewService wires the record store with an optional cache (nil disables it).
func NewService(repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, now: time.Now}
}

// Save validates rec, fills in the game number and date when missing and
// stores it. The stored record is returned.
func (s *Service) Save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	gameType, err := domain.ParseGameType(string(rec.GameType))
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("%w: %q", err, rec.GameType)
	}
	rec.GameType = gameType
	if rec.GameNumber == "" {
		rec.GameNumber = uid.GenerateGameID()
	}
	if rec.GameDate == 0 {
		rec.GameDate = s.now().UnixMilli()
	}

	if err := s.repo.SaveGame(ctx, rec); err != nil {
		return domain.GameRecord{}, err
	}
	s.invalidate(ctx)

	log.Info().
		Str("component", "records").
		Str("game_number", rec.GameNumber).
		Str("game_type", string(rec.GameType)).
		Str("winner", rec.WinnerName).
		Msg("game saved")
	return rec, nil
}

// List returns every stored game, oldest first, from the cache when possible.
func (s *Service) List(ctx context.Context) ([]domain.GameRecord, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, gamesCacheKey); err == nil {
			var cached []domain.GameRecord
			decodeErr := json.Unmarshal(data, &cached)
			if decodeErr == nil {
				return cached, nil
			}
			log.Warn().Str("component", "records").Err(decodeErr).Msg("dropping undecodable cache entry")
		}
	}

	games, err := s.repo.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(games); err == nil {
			if err := s.cache.Set(ctx, gamesCacheKey, data, s.ttl); err != nil {
				log.Warn().Str("component", "records").Err(err).Msg("failed to cache games list")
			}
		}
	}
	return games, nil
}

func (s *Service) Get(ctx context.Context, gameNumber string) (domain.GameRecord, error) {
	if gameNumber == "" {
		return domain.GameRecord{}, domain.ErrRecordNotFound
	}
	return s.repo.GetGame(ctx, gameNumber)
}

func (s *Service) Summary(ctx context.Context) (domain.ScoreSummary, error) {
	games, err := s.List(ctx)
	if err != nil {
		return domain.ScoreSummary{}, err
	}
	return domain.Summarize(games), nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, gamesCacheKey); err != nil {
		log.Warn().Str("component", "records").Err(err).Msg("failed to invalidate games cache")
	}
}

// IsNotFound reports whether err means the game does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}
