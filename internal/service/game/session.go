package game

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/pkg/uid"
)

// GameSession is one client's table: a live game plus the settings a reset
// starts the next game with. Player 1 always holds SideA.
type GameSession struct {
	GameID     string
	OwnerID    string
	GameType   domain.GameType
	Player1    string
	Player2    string
	VsComputer bool
	Difficulty domain.Difficulty
	Game       *domain.Game
	GameNumber string // record id of the current game
	CreatedAt  time.Time
	UpdatedAt  time.Time
	mu         sync.Mutex
	manager    *SessionManager
}

func newGameSession(ownerID string, opts NewGameOptions, sm *SessionManager) (*GameSession, error) {
	g, err := domain.NewGame(opts.GameType)
	if err != nil {
		return nil, err
	}

	player1 := strings.TrimSpace(opts.Player1)
	if player1 == "" {
		player1 = "Player 1"
	}
	player2 := strings.TrimSpace(opts.Player2)
	if opts.VsComputer {
		player2 = domain.ComputerName
	} else if player2 == "" {
		player2 = "Player 2"
	}

	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = domain.Medium
	}

	now := sm.now()
	return &GameSession{
		GameID:     uid.GenerateGameID(),
		OwnerID:    ownerID,
		GameType:   opts.GameType,
		Player1:    player1,
		Player2:    player2,
		VsComputer: opts.VsComputer,
		Difficulty: difficulty,
		Game:       g,
		GameNumber: uid.GenerateGameID(),
		CreatedAt:  now,
		UpdatedAt:  now,
		manager:    sm,
	}, nil
}

func (gs *GameSession) GetUsername(side domain.Side) string {
	switch side {
	case domain.SideA:
		return gs.Player1
	case domain.SideB:
		return gs.Player2
	}
	return domain.DrawName
}

func (gs *GameSession) live() (LiveGame, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() {
		return LiveGame{}, false
	}
	live := LiveGame{
		GameID:     gs.GameID,
		GameType:   gs.GameType,
		Player1:    gs.Player1,
		Player2:    gs.Player2,
		VsComputer: gs.VsComputer,
		MoveCount:  gs.Game.Board.Ply,
		StartedAt:  gs.CreatedAt,
	}
	if gs.VsComputer {
		live.Difficulty = gs.Difficulty
	}
	return live, true
}

func (gs *GameSession) lastActive() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.UpdatedAt
}

// snapshot fills the board fields of a message from the live game.
func (gs *GameSession) snapshot(msg domain.ServerMessage) domain.ServerMessage {
	msg.GameID = gs.GameID
	msg.GameType = gs.GameType
	msg.Board = gs.Game.Board.Grid()
	if gs.GameType == domain.TootOtto {
		msg.Letters = gs.Game.Board.Letters()
	}
	msg.CurrentTurn = int(gs.Game.CurrentPlayer)
	return msg
}

func (gs *GameSession) announce(conn Notifier) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.sendStartLocked(conn)
}

func (gs *GameSession) sendStartLocked(conn Notifier) {
	conn.SendMessage(gs.OwnerID, gs.snapshot(domain.ServerMessage{
		Type:       domain.MsgGameStart,
		Player1:    gs.Player1,
		Player2:    gs.Player2,
		Difficulty: gs.Difficulty,
	}))
}

// HandleMove plays a human move for the side to move. When the computer
// holds the other side its reply is played before HandleMove returns.
func (gs *GameSession) HandleMove(move domain.Move, conn Notifier) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() {
		return domain.ErrGameOver
	}
	if gs.VsComputer && gs.Game.CurrentPlayer == domain.SideB {
		return domain.ErrNotYourTurn
	}

	if err := gs.playLocked(gs.Game.CurrentPlayer, move, conn); err != nil {
		return err
	}

	if gs.VsComputer && !gs.Game.IsFinished() && gs.Game.CurrentPlayer == domain.SideB {
		return gs.handleBotMoveLocked(conn)
	}
	return nil
}

func (gs *GameSession) handleBotMoveLocked(conn Notifier) error {
	engine, ok := gs.manager.engines[gs.GameType]
	if !ok {
		return domain.ErrUnknownGameType
	}

	started := time.Now()
	move, err := engine.ChooseMove(gs.Game.Board, domain.SideB, gs.Difficulty)
	if err != nil {
		return err
	}
	log.Debug().
		Str("component", "bot").
		Str("game_id", gs.GameID).
		Str("move", move.String()).
		Dur("took", time.Since(started)).
		Msg("computer moved")

	return gs.playLocked(domain.SideB, move, conn)
}

// playLocked commits a move, reports it and settles a finished game.
func (gs *GameSession) playLocked(side domain.Side, move domain.Move, conn Notifier) error {
	placement, err := gs.Game.MakeMove(side, move)
	if err != nil {
		return err
	}
	gs.UpdatedAt = gs.manager.now()

	conn.SendMessage(gs.OwnerID, gs.snapshot(domain.ServerMessage{
		Type:   domain.MsgMoveMade,
		Column: placement.Column,
		Row:    placement.Row,
		Symbol: placement.Cell.Symbol.String(),
		Player: int(side),
	}))

	if gs.Game.IsFinished() {
		gs.finishLocked(conn)
	}
	return nil
}

func (gs *GameSession) finishLocked(conn Notifier) {
	eval := gs.Game.Evaluate()
	reason := domain.ReasonDraw
	if eval.Winner != domain.NoSide {
		reason = domain.ReasonConnectFour
		if gs.GameType == domain.TootOtto {
			reason = domain.ReasonWord
		}
	}
	winner := gs.GetUsername(gs.Game.Winner)

	conn.SendMessage(gs.OwnerID, gs.snapshot(domain.ServerMessage{
		Type:   domain.MsgGameOver,
		Winner: winner,
		Reason: reason,
	}))

	log.Info().
		Str("component", "session").
		Str("game_id", gs.GameID).
		Str("winner", winner).
		Str("reason", reason).
		Int("plies", gs.Game.Board.Ply).
		Int("score", eval.Score).
		Msg("game over")

	rec := domain.NewGameRecord(gs.GameNumber, gs.GameType, gs.Player1, gs.Player2, gs.Game.Winner, gs.manager.now())
	gs.manager.saveGameAsync(rec)
}

// Reset starts a fresh game with the same players and settings. An
// unfinished game is discarded without a record.
func (gs *GameSession) Reset(conn Notifier) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	g, err := domain.NewGame(gs.GameType)
	if err != nil {
		return err
	}
	gs.Game = g
	gs.GameNumber = uid.GenerateGameID()
	gs.UpdatedAt = gs.manager.now()
	gs.sendStartLocked(conn)
	return nil
}
