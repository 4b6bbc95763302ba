package domain

type ClientMessage struct {
	Type       string `json:"type"`
	GameType   string `json:"gameType,omitempty"`
	Player1    string `json:"player1,omitempty"`
	Player2    string `json:"player2,omitempty"`
	VsComputer bool   `json:"vsComputer,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Column     int    `json:"column"`
	Symbol     string `json:"symbol,omitempty"`
}

type ServerMessage struct {
	Type        string     `json:"type"`
	Message     string     `json:"message,omitempty"`
	GameID      string     `json:"gameId,omitempty"`
	GameType    GameType   `json:"gameType,omitempty"`
	Player1     string     `json:"player1,omitempty"`
	Player2     string     `json:"player2,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Column      int        `json:"column"`
	Row         int        `json:"row"`
	Symbol      string     `json:"symbol,omitempty"`
	Player      int        `json:"player,omitempty"`
	Board       [][]int    `json:"board,omitempty"`
	Letters     [][]string `json:"letters,omitempty"`
	CurrentTurn int        `json:"currentTurn,omitempty"`
	Winner      string     `json:"winner,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

const (
	MsgNewGame  = "new_game"
	MsgMakeMove = "make_move"
	MsgReset    = "reset"

	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)

const (
	ReasonConnectFour = "connect_four"
	ReasonWord        = "word"
	ReasonDraw        = "draw"
)
