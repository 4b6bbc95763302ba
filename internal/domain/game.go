package domain

type Game struct {
	Type          GameType
	Board         Board
	CurrentPlayer Side
	Status        GameStatus
	Winner        Side
	rules         Rules
}

func NewGame(t GameType) (*Game, error) {
	rules, err := RulesFor(t)
	if err != nil {
		return nil, err
	}
	return &Game{
		Type:          t,
		Board:         NewBoard(),
		CurrentPlayer: SideA,
		Status:        StatusActive,
		Winner:        NoSide,
		rules:         rules,
	}, nil
}

// MakeMove commits move for player on the live board, then settles the
// status and hands the turn over. The landing row is returned for animation.
func (g *Game) MakeMove(player Side, move Move) (Placement, error) {
	if g.Status != StatusActive {
		return Placement{}, ErrGameOver
	}
	if player != g.CurrentPlayer {
		return Placement{}, ErrNotYourTurn
	}

	cell, err := g.rules.CellFor(move, player)
	if err != nil {
		return Placement{}, err
	}
	row, err := g.Board.Drop(move.Column, cell)
	if err != nil {
		return Placement{}, err
	}

	eval := g.rules.Evaluate(&g.Board)
	switch {
	case eval.Winner != NoSide:
		g.Status = StatusWon
		g.Winner = eval.Winner
	case eval.Draw:
		g.Status = StatusDraw
	default:
		g.CurrentPlayer = g.CurrentPlayer.Opponent()
	}

	return Placement{Row: row, Column: move.Column, Cell: cell}, nil
}

// Evaluate scores the live board, positive when it favours SideA.
func (g *Game) Evaluate() Evaluation {
	return g.rules.Evaluate(&g.Board)
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
