package domain

import (
	"fmt"
	"strings"
)

type Symbol byte

const (
	NoSymbol Symbol = 0
	SymbolT  Symbol = 'T'
	SymbolO  Symbol = 'O'
)

// Symbols lists the letters a TOOT-OTTO player may drop, in search order.
var Symbols = [2]Symbol{SymbolT, SymbolO}

func ParseSymbol(s string) (Symbol, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return NoSymbol, nil
	case "T":
		return SymbolT, nil
	case "O":
		return SymbolO, nil
	}
	return NoSymbol, ErrInvalidSymbol
}

// Value is the numeric grid value a letter disc carries: T is +1, O is -1.
func (s Symbol) Value() int {
	switch s {
	case SymbolT:
		return 1
	case SymbolO:
		return -1
	}
	return 0
}

func (s Symbol) String() string {
	if s == NoSymbol {
		return ""
	}
	return string(rune(s))
}

// Cell is one slot of the grid. Value and Symbol are always written together.
type Cell struct {
	Value  int
	Symbol Symbol
}

func DiscCell(side Side) Cell {
	return Cell{Value: int(side)}
}

func LetterCell(symbol Symbol) Cell {
	return Cell{Value: symbol.Value(), Symbol: symbol}
}

func (c Cell) IsEmpty() bool {
	return c.Value == 0 && c.Symbol == NoSymbol
}

type Move struct {
	Column int
	Symbol Symbol
}

func (m Move) String() string {
	return fmt.Sprintf("%d%s", m.Column, m.Symbol)
}

// Placement describes where a dropped disc came to rest.
type Placement struct {
	Row    int
	Column int
	Cell   Cell
}

// Board is a value type; copying it copies the whole grid.
// Cells[0] is the top row, Cells[Rows-1] the bottom.
type Board struct {
	Cells [Rows][Columns]Cell
	Ply   int
}

func NewBoard() Board {
	return Board{}
}

func (b *Board) IsValidMove(column int) bool {
	if column < 0 || column >= Columns {
		return false
	}
	// row 0 is the top, a disc there means nothing else fits
	return b.Cells[0][column].IsEmpty()
}

// LandingRow returns the row a disc dropped in column would settle on.
func (b *Board) LandingRow(column int) (int, error) {
	if column < 0 || column >= Columns {
		return -1, ErrInvalidMove
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.Cells[row][column].IsEmpty() {
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// Drop places cell in column in place and returns the landing row.
func (b *Board) Drop(column int, cell Cell) (int, error) {
	if cell.IsEmpty() {
		return -1, ErrInvalidMove
	}
	row, err := b.LandingRow(column)
	if err != nil {
		return -1, err
	}
	b.Cells[row][column] = cell
	b.Ply++
	return row, nil
}

func (b *Board) IsFull() bool {
	return b.Ply >= MaxPlies
}

func (b *Board) ValidColumns() []int {
	columns := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.IsValidMove(col) {
			columns = append(columns, col)
		}
	}
	return columns
}

// Grid converts the board to plain ints for JSON and database storage.
func (b *Board) Grid() [][]int {
	grid := make([][]int, Rows)
	for r := range grid {
		grid[r] = make([]int, Columns)
		for c := range grid[r] {
			grid[r][c] = b.Cells[r][c].Value
		}
	}
	return grid
}

// Letters returns the symbol grid, "" for empty or numeric cells.
func (b *Board) Letters() [][]string {
	letters := make([][]string, Rows)
	for r := range letters {
		letters[r] = make([]string, Columns)
		for c := range letters[r] {
			letters[r][c] = b.Cells[r][c].Symbol.String()
		}
	}
	return letters
}

// String renders the board top row first using the ParseBoard alphabet.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			cell := b.Cells[r][c]
			switch {
			case cell.Symbol != NoSymbol:
				sb.WriteByte(byte(cell.Symbol))
			case cell.Value > 0:
				sb.WriteByte('R')
			case cell.Value < 0:
				sb.WriteByte('Y')
			default:
				sb.WriteByte('.')
			}
		}
		if r < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseBoard builds a board from Rows strings, top row first. '.' is empty,
// 'R' is a +1 disc, 'Y' a -1 disc, 'T' and 'O' letter discs. The gravity
// invariant is enforced and Ply is set to the number of discs.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("parse board: want %d rows, got %d", Rows, len(rows))
	}
	for r, line := range rows {
		if len(line) != Columns {
			return b, fmt.Errorf("parse board: row %d: want %d cells, got %d", r, Columns, len(line))
		}
		for c := 0; c < Columns; c++ {
			var cell Cell
			switch line[c] {
			case '.':
			case 'R':
				cell = DiscCell(SideA)
			case 'Y':
				cell = DiscCell(SideB)
			case 'T':
				cell = LetterCell(SymbolT)
			case 'O':
				cell = LetterCell(SymbolO)
			default:
				return b, fmt.Errorf("parse board: row %d col %d: unknown cell %q", r, c, line[c])
			}
			if !cell.IsEmpty() {
				b.Ply++
			}
			b.Cells[r][c] = cell
		}
	}
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows-1; r++ {
			if !b.Cells[r][c].IsEmpty() && b.Cells[r+1][c].IsEmpty() {
				return Board{}, fmt.Errorf("parse board: floating disc at row %d col %d", r, c)
			}
		}
	}
	return b, nil
}
