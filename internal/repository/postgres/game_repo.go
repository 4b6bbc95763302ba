package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

type GameRepo struct {
	DB *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const recordColumns = `game_number, game_type, player1_name, player2_name, winner_name, game_date`

// SaveGame stores a finished game. Saving the same game number twice keeps
// the first record.
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	query := `
	INSERT INTO games (` + recordColumns + `)
	VALUES (:game_number, :game_type, :player1_name, :player2_name, :winner_name, :game_date)
	ON CONFLICT (game_number) DO NOTHING;
	`
	if _, err := r.DB.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to insert game %s: %w", rec.GameNumber, err)
	}
	return nil
}

// ListGames returns every stored game, oldest first.
func (r *GameRepo) ListGames(ctx context.Context) ([]domain.GameRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM games ORDER BY game_date ASC, id ASC;`

	records := []domain.GameRecord{}
	if err := r.DB.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return records, nil
}

func (r *GameRepo) GetGame(ctx context.Context, gameNumber string) (domain.GameRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM games WHERE game_number = $1;`

	var rec domain.GameRecord
	err := r.DB.GetContext(ctx, &rec, query, gameNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("failed to get game %s: %w", gameNumber, err)
	}
	return rec, nil
}
