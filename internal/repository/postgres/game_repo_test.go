package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/pkg/uid"
)

// Runs against a live database when TEST_DATABASE_URL is set.
func openTestDB(t *testing.T) *GameRepo {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, Options{Driver: os.Getenv("TEST_DATABASE_DRIVER"), URL: url, MaxOpenConns: 2, MaxIdleConns: 2, ConnMaxLifetimeMin: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return NewGameRepo(db)
}

func TestGameRepoRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	rec := domain.NewGameRecord(uid.GenerateGameID(), domain.TootOtto, "alice", domain.ComputerName, domain.SideB, time.Now())
	if err := repo.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	// saving again is a no-op
	if err := repo.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame twice: %v", err)
	}

	got, err := repo.GetGame(ctx, rec.GameNumber)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got != rec {
		t.Fatalf("expected %+v, got %+v", rec, got)
	}

	all, err := repo.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	found := 0
	for _, r := range all {
		if r.GameNumber == rec.GameNumber {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("expected the game listed once, found %d", found)
	}
}

func TestGameRepoMissing(t *testing.T) {
	repo := openTestDB(t)
	if _, err := repo.GetGame(context.Background(), "no-such-game"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mysql"}); err == nil {
		t.Fatalf("expected an error for an unsupported driver")
	}
}
