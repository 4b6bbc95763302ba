package domain

// Evaluation is the result of scanning every window on a board.
// Score is positive when the position favours SideA.
type Evaluation struct {
	Winner Side
	Draw   bool
	Score  int
}

func (e Evaluation) Terminal() bool {
	return e.Winner != NoSide || e.Draw
}

// Rules is the per-variant cell semantics shared by live play and search.
type Rules interface {
	Type() GameType
	// CellFor returns the cell mover leaves behind when playing move.
	CellFor(move Move, mover Side) (Cell, error)
	// Moves lists the legal moves on b in a fixed order.
	Moves(b *Board) []Move
	Evaluate(b *Board) Evaluation
}

type point struct {
	row, col int
}

type window [ToWin]point

// right, down, down-right, up-right
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// windows holds every complete 4-cell line on the grid (69 on 6x7).
var windows = buildWindows()

func buildWindows() []window {
	var out []window
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			for _, d := range directions {
				endRow := r + d[0]*(ToWin-1)
				endCol := c + d[1]*(ToWin-1)
				if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Columns {
					continue
				}
				var w window
				for k := 0; k < ToWin; k++ {
					w[k] = point{r + d[0]*k, c + d[1]*k}
				}
				out = append(out, w)
			}
		}
	}
	return out
}

func RulesFor(t GameType) (Rules, error) {
	switch t {
	case Connect4:
		return Connect4Rules, nil
	case TootOtto:
		return TootOttoRules, nil
	}
	return nil, ErrUnknownGameType
}

// Apply plays move for mover on a copy of b.
func Apply(rules Rules, b Board, move Move, mover Side) (Board, Placement, error) {
	cell, err := rules.CellFor(move, mover)
	if err != nil {
		return b, Placement{}, err
	}
	row, err := b.Drop(move.Column, cell)
	if err != nil {
		return b, Placement{}, err
	}
	return b, Placement{Row: row, Column: move.Column, Cell: cell}, nil
}

func settle(b *Board, score int, winA, winB bool) Evaluation {
	e := Evaluation{Score: score}
	switch {
	case winA && winB:
		e.Draw = true
	case winA:
		e.Winner = SideA
	case winB:
		e.Winner = SideB
	case b.IsFull():
		e.Draw = true
	}
	return e
}

type connect4 struct{}

var Connect4Rules Rules = connect4{}

func (connect4) Type() GameType {
	return Connect4
}

func (connect4) CellFor(move Move, mover Side) (Cell, error) {
	if move.Symbol != NoSymbol {
		return Cell{}, ErrInvalidSymbol
	}
	if mover != SideA && mover != SideB {
		return Cell{}, ErrInvalidMove
	}
	return DiscCell(mover), nil
}

func (connect4) Moves(b *Board) []Move {
	moves := make([]Move, 0, Columns)
	for _, col := range b.ValidColumns() {
		moves = append(moves, Move{Column: col})
	}
	return moves
}

// Evaluate sums each window; a sum of +-4 is four in a row and the cubed
// sums make up the positional score.
func (connect4) Evaluate(b *Board) Evaluation {
	var score int
	var winA, winB bool
	for _, w := range windows {
		sum := 0
		for _, p := range w {
			sum += b.Cells[p.row][p.col].Value
		}
		score += sum * sum * sum
		switch sum {
		case ToWin:
			winA = true
		case -ToWin:
			winB = true
		}
	}
	return settle(b, score, winA, winB)
}

type tootOtto struct{}

var TootOttoRules Rules = tootOtto{}

// SideA spells TOOT, SideB spells OTTO.
var (
	wordTOOT = [ToWin]Symbol{SymbolT, SymbolO, SymbolO, SymbolT}
	wordOTTO = [ToWin]Symbol{SymbolO, SymbolT, SymbolT, SymbolO}
)

// tootMask turns TOOT into +4 and OTTO into -4 on the value grid.
var tootMask = [ToWin]int{1, -1, -1, 1}

func (tootOtto) Type() GameType {
	return TootOtto
}

func (tootOtto) CellFor(move Move, mover Side) (Cell, error) {
	if move.Symbol != SymbolT && move.Symbol != SymbolO {
		return Cell{}, ErrInvalidSymbol
	}
	if mover != SideA && mover != SideB {
		return Cell{}, ErrInvalidMove
	}
	return LetterCell(move.Symbol), nil
}

func (tootOtto) Moves(b *Board) []Move {
	columns := b.ValidColumns()
	moves := make([]Move, 0, len(columns)*len(Symbols))
	for _, sym := range Symbols {
		for _, col := range columns {
			moves = append(moves, Move{Column: col, Symbol: sym})
		}
	}
	return moves
}

// Evaluate matches the words on the symbol grid. The score is computed on
// the value grid and only ranks non-terminal positions.
func (tootOtto) Evaluate(b *Board) Evaluation {
	var score int
	var winA, winB bool
	for _, w := range windows {
		var word [ToWin]Symbol
		sum := 0
		for k, p := range w {
			cell := b.Cells[p.row][p.col]
			word[k] = cell.Symbol
			sum += tootMask[k] * cell.Value
		}
		score += sum * sum * sum
		switch word {
		case wordTOOT:
			winA = true
		case wordOTTO:
			winB = true
		}
	}
	return settle(b, score, winA, winB)
}

// Evaluate looks up the rules for t and evaluates b with them.
func Evaluate(t GameType, b *Board) (Evaluation, error) {
	rules, err := RulesFor(t)
	if err != nil {
		return Evaluation{}, err
	}
	return rules.Evaluate(b), nil
}
