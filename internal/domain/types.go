package domain

import "strings"

// ComputerName is the player name recorded for the AI side.
const ComputerName = "Computer"

// DrawName is recorded as the winner of a drawn game.
const DrawName = "Draw"

func IsComputerName(name string) bool {
	return name == ComputerName
}

// Side is the mover sign: +1 moves first (red in Connect 4, TOOT in TOOT-OTTO), -1 second.
type Side int

const (
	NoSide Side = 0
	SideA  Side = 1
	SideB  Side = -1
)

func (s Side) Opponent() Side {
	return -s
}

const (
	Rows     = 6
	Columns  = 7
	ToWin    = 4
	MaxPlies = Rows * Columns
)

type GameType string

const (
	Connect4 GameType = "Connect-4"
	TootOtto GameType = "TOOT-OTTO"
)

// ParseGameType accepts the stored names as well as a few loose spellings clients send.
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "connect-4", "connect4", "connect_4", "":
		return Connect4, nil
	case "toot-otto", "toototto", "toot_otto", "toot":
		return TootOtto, nil
	}
	return "", ErrUnknownGameType
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty defaults to Medium for anything it doesn't recognise.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	default:
		return Medium
	}
}

type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove     Error = "invalid move"
	ErrColumnFull      Error = "column is full"
	ErrInvalidSymbol   Error = "invalid symbol"
	ErrGameOver        Error = "game is over"
	ErrNotYourTurn     Error = "not your turn"
	ErrNoLegalMove     Error = "no legal move"
	ErrUnknownGameType Error = "unknown game type"
	ErrRecordNotFound  Error = "game record not found"
	ErrSessionNotFound Error = "session not found"
)

// Is lets errors.Is(ErrColumnFull, ErrInvalidMove) hold.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return t == ErrInvalidMove && (e == ErrColumnFull || e == ErrInvalidSymbol)
}
