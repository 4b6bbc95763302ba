package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

// Notifier delivers server messages to the connection that owns a session.
type Notifier interface {
	SendMessage(clientID string, message domain.ServerMessage) error
}

// RecordSaver stores finished games.
type RecordSaver interface {
	Save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error)
}

// MoveChooser picks the computer's reply on a board.
type MoveChooser interface {
	ChooseMove(board domain.Board, mover domain.Side, difficulty domain.Difficulty) (domain.Move, error)
}

// NewGameOptions are the choices a client makes before the first move.
type NewGameOptions struct {
	GameType   domain.GameType
	Player1    string
	Player2    string
	VsComputer bool
	Difficulty domain.Difficulty
}

const saveTimeout = 10 * time.Second

// SessionManager manages active game sessions
type SessionManager struct {
	Session     map[string]*GameSession // gameID → GameSession
	OwnerToGame map[string]string       // clientID → gameID
	mu          sync.RWMutex
	saver       RecordSaver
	engines     map[domain.GameType]MoveChooser
	saves       sync.WaitGroup
	now         func() time.Time
}

func NewSessionManager(saver RecordSaver, engines map[domain.GameType]MoveChooser) *SessionManager {
	return &SessionManager{
		Session:     make(map[string]*GameSession),
		OwnerToGame: make(map[string]string),
		saver:       saver,
		engines:     engines,
		now:         time.Now,
	}
}

// CreateSession starts a game for clientID, replacing any session the client
// already had, and announces it with game_start.
func (sm *SessionManager) CreateSession(clientID string, opts NewGameOptions, conn Notifier) (*GameSession, error) {
	session, err := newGameSession(clientID, opts, sm)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	if oldID, exists := sm.OwnerToGame[clientID]; exists {
		delete(sm.Session, oldID)
	}
	sm.Session[session.GameID] = session
	sm.OwnerToGame[clientID] = session.GameID
	sm.mu.Unlock()

	log.Info().
		Str("component", "session").
		Str("game_id", session.GameID).
		Str("game_type", string(session.GameType)).
		Str("player1", session.Player1).
		Str("player2", session.Player2).
		Str("difficulty", string(session.Difficulty)).
		Msg("session created")

	session.announce(conn)
	return session, nil
}

func (sm *SessionManager) GetSessionByOwner(clientID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.OwnerToGame[clientID]
	if !exists {
		return nil, false
	}
	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.removeSessionLocked(gameID)
}

// RemoveByOwner drops the session of a client that went away.
func (sm *SessionManager) RemoveByOwner(clientID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if gameID, exists := sm.OwnerToGame[clientID]; exists {
		sm.removeSessionLocked(gameID)
	}
}

// removeSessionLocked removes session from maps without acquiring lock (caller must hold it)
func (sm *SessionManager) removeSessionLocked(gameID string) error {
	session, exists := sm.Session[gameID]
	if !exists {
		return domain.ErrSessionNotFound
	}

	log.Debug().Str("component", "session").Str("game_id", gameID).Msg("removing session")
	if sm.OwnerToGame[session.OwnerID] == gameID {
		delete(sm.OwnerToGame, session.OwnerID)
	}
	delete(sm.Session, gameID)
	return nil
}

// CleanupIdleSessions removes sessions untouched for longer than maxIdle and
// returns how many were removed. Activity is read without the manager lock,
// so a session busy with a computer move only delays the sweep.
func (sm *SessionManager) CleanupIdleSessions(maxIdle time.Duration) int {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, session := range sm.Session {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	now := sm.now()
	var idle []*GameSession
	for _, session := range sessions {
		if now.Sub(session.lastActive()) > maxIdle {
			idle = append(idle, session)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	for _, session := range idle {
		// skip sessions replaced or removed since the snapshot
		if sm.Session[session.GameID] != session {
			continue
		}
		sm.removeSessionLocked(session.GameID)
		count++
	}

	if count > 0 {
		log.Info().Str("component", "session").Int("removed", count).Msg("memory cleanup: removed idle game sessions")
	}
	return count
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// Wait blocks until every pending record save has finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

// saveGameAsync stores the record in the background so game_over is not held
// up by the store.
func (sm *SessionManager) saveGameAsync(rec domain.GameRecord) {
	if sm.saver == nil {
		return
	}
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if _, err := sm.saver.Save(ctx, rec); err != nil {
			log.Error().Str("component", "session").Str("game_number", rec.GameNumber).Err(err).Msg("error saving game")
			return
		}
		log.Debug().Str("component", "session").Str("game_number", rec.GameNumber).Msg("game saved successfully")
	}()
}

// LiveGame is the public view of an unfinished session.
type LiveGame struct {
	GameID     string            `json:"gameId"`
	GameType   domain.GameType   `json:"gameType"`
	Player1    string            `json:"player1"`
	Player2    string            `json:"player2"`
	VsComputer bool              `json:"vsComputer"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	MoveCount  int               `json:"moveCount"`
	StartedAt  time.Time         `json:"startedAt"`
}

// GetActiveGames lists sessions whose current game is still running, oldest first.
func (sm *SessionManager) GetActiveGames() []LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, session := range sm.Session {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	games := make([]LiveGame, 0, len(sessions))
	for _, session := range sessions {
		if live, ok := session.live(); ok {
			games = append(games, live)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].StartedAt.Equal(games[j].StartedAt) {
			return games[i].StartedAt.Before(games[j].StartedAt)
		}
		return games[i].GameID < games[j].GameID
	})
	return games
}
