package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/internal/service/bot"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []domain.ServerMessage
}

func (n *recordingNotifier) SendMessage(_ string, msg domain.ServerMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.msgs))
	for i, m := range n.msgs {
		out[i] = m.Type
	}
	return out
}

func (n *recordingNotifier) last() domain.ServerMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msgs[len(n.msgs)-1]
}

type recordingSaver struct {
	mu      sync.Mutex
	records []domain.GameRecord
}

func (s *recordingSaver) Save(_ context.Context, rec domain.GameRecord) (domain.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return rec, nil
}

func newManager(saver RecordSaver) *SessionManager {
	engines := map[domain.GameType]MoveChooser{
		domain.Connect4: bot.NewEngine(domain.Connect4Rules, bot.NewSelector(bot.NewSeededSource(1)), false),
		domain.TootOtto: bot.NewEngine(domain.TootOttoRules, bot.NewSelector(bot.NewSeededSource(1)), false),
	}
	return NewSessionManager(saver, engines)
}

func TestCreateSessionAnnounces(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	session, err := sm.CreateSession("c1", NewGameOptions{GameType: domain.TootOtto, Player1: " alice ", VsComputer: true}, conn)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Player1 != "alice" || session.Player2 != domain.ComputerName || session.Difficulty != domain.Medium {
		t.Fatalf("unexpected session settings: %+v", session)
	}
	msg := conn.last()
	if msg.Type != domain.MsgGameStart || msg.GameID != session.GameID || len(msg.Letters) != domain.Rows {
		t.Fatalf("unexpected game_start: %+v", msg)
	}
	if got, ok := sm.GetSessionByOwner("c1"); !ok || got != session {
		t.Fatalf("session not registered for owner")
	}
}

func TestCreateSessionReplacesPrevious(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	first, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4}, conn)
	second, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4}, conn)
	if _, ok := sm.GetSessionByGameID(first.GameID); ok {
		t.Fatalf("old session still registered")
	}
	if got, _ := sm.GetSessionByOwner("c1"); got != second || sm.Count() != 1 {
		t.Fatalf("expected only the new session")
	}
}

func TestCreateSessionUnknownType(t *testing.T) {
	sm := newManager(nil)
	if _, err := sm.CreateSession("c1", NewGameOptions{GameType: "chess"}, &recordingNotifier{}); !errors.Is(err, domain.ErrUnknownGameType) {
		t.Fatalf("expected ErrUnknownGameType, got %v", err)
	}
}

func TestHandleMoveComputerReplies(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	session, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4, Player1: "alice", VsComputer: true, Difficulty: domain.Easy}, conn)

	if err := session.HandleMove(domain.Move{Column: 3}, conn); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	types := conn.types()
	if len(types) != 3 || types[1] != domain.MsgMoveMade || types[2] != domain.MsgMoveMade {
		t.Fatalf("expected human and computer moves, got %v", types)
	}
	if reply := conn.last(); reply.Player != int(domain.SideB) || reply.CurrentTurn != int(domain.SideA) {
		t.Fatalf("unexpected computer reply %+v", reply)
	}
	if session.Game.Board.Ply != 2 {
		t.Fatalf("expected 2 plies, got %d", session.Game.Board.Ply)
	}
}

func TestHandleMoveRejectsBadMove(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	session, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.TootOtto, VsComputer: true}, conn)

	err := session.HandleMove(domain.Move{Column: 2}, conn)
	if !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
	if n := len(conn.types()); n != 1 {
		t.Fatalf("rejected move produced messages: %v", conn.types())
	}
}

func TestHotseatWinSavesRecord(t *testing.T) {
	saver := &recordingSaver{}
	sm := newManager(saver)
	conn := &recordingNotifier{}
	session, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4, Player1: "alice", Player2: "bob"}, conn)

	for i, col := range []int{0, 6, 1, 6, 2, 6, 3} {
		if err := session.HandleMove(domain.Move{Column: col}, conn); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}
	over := conn.last()
	if over.Type != domain.MsgGameOver || over.Winner != "alice" || over.Reason != domain.ReasonConnectFour {
		t.Fatalf("unexpected game_over %+v", over)
	}
	if err := session.HandleMove(domain.Move{Column: 4}, conn); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}

	sm.Wait()
	if len(saver.records) != 1 {
		t.Fatalf("expected one saved record, got %d", len(saver.records))
	}
	rec := saver.records[0]
	if rec.WinnerName != "alice" || rec.Player2Name != "bob" || rec.GameNumber != session.GameNumber {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestResetStartsNewGame(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	session, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.TootOtto, Player1: "a", Player2: "b"}, conn)
	session.HandleMove(domain.Move{Column: 0, Symbol: domain.SymbolT}, conn)
	number := session.GameNumber

	if err := session.Reset(conn); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if session.Game.Board.Ply != 0 || session.GameNumber == number {
		t.Fatalf("reset kept the old game")
	}
	if conn.last().Type != domain.MsgGameStart {
		t.Fatalf("expected game_start after reset, got %s", conn.last().Type)
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	sm := newManager(nil)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }
	conn := &recordingNotifier{}

	sm.CreateSession("old", NewGameOptions{GameType: domain.Connect4}, conn)
	clock = clock.Add(50 * time.Minute)
	fresh, _ := sm.CreateSession("new", NewGameOptions{GameType: domain.Connect4}, conn)
	clock = clock.Add(20 * time.Minute)

	if n := sm.CleanupIdleSessions(time.Hour); n != 1 {
		t.Fatalf("expected 1 removed session, got %d", n)
	}
	if _, ok := sm.GetSessionByOwner("old"); ok {
		t.Fatalf("idle session survived")
	}
	if got, ok := sm.GetSessionByOwner("new"); !ok || got != fresh {
		t.Fatalf("active session removed")
	}
}

// A session held by a long computer move must not block lookups of other
// sessions while the sweep waits on it.
func TestCleanupDoesNotBlockLookups(t *testing.T) {
	sm := newManager(nil)
	conn := &recordingNotifier{}
	busy, _ := sm.CreateSession("busy", NewGameOptions{GameType: domain.Connect4}, conn)
	sm.CreateSession("other", NewGameOptions{GameType: domain.Connect4}, conn)

	busy.mu.Lock()
	swept := make(chan int, 1)
	go func() { swept <- sm.CleanupIdleSessions(time.Hour) }()
	time.Sleep(20 * time.Millisecond)

	found := make(chan bool, 1)
	go func() {
		_, ok := sm.GetSessionByOwner("other")
		found <- ok
	}()
	select {
	case ok := <-found:
		if !ok {
			t.Fatalf("session lookup failed during sweep")
		}
	case <-time.After(time.Second):
		busy.mu.Unlock()
		t.Fatalf("lookup blocked behind the idle sweep")
	}

	busy.mu.Unlock()
	if n := <-swept; n != 0 {
		t.Fatalf("expected no idle sessions, got %d removed", n)
	}
}

func TestRemoveByOwner(t *testing.T) {
	sm := newManager(nil)
	session, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4}, &recordingNotifier{})
	sm.RemoveByOwner("c1")
	if err := sm.RemoveSession(session.GameID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetActiveGames(t *testing.T) {
	sm := newManager(nil)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }
	conn := &recordingNotifier{}

	first, _ := sm.CreateSession("c1", NewGameOptions{GameType: domain.Connect4, Player1: "a", Player2: "b"}, conn)
	clock = clock.Add(time.Minute)
	second, _ := sm.CreateSession("c2", NewGameOptions{GameType: domain.TootOtto, VsComputer: true, Difficulty: domain.Hard}, conn)
	finished, _ := sm.CreateSession("c3", NewGameOptions{GameType: domain.Connect4, Player1: "x", Player2: "y"}, conn)
	for _, col := range []int{0, 6, 1, 6, 2, 6, 3} {
		finished.HandleMove(domain.Move{Column: col}, conn)
	}

	live := sm.GetActiveGames()
	if len(live) != 2 || live[0].GameID != first.GameID || live[1].GameID != second.GameID {
		t.Fatalf("unexpected live games %+v", live)
	}
	if live[1].Difficulty != domain.Hard || live[0].Difficulty != "" {
		t.Fatalf("difficulty shown for the wrong game: %+v", live)
	}
}
