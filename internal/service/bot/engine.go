package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

// Engine picks the computer's move for one game variant.
type Engine struct {
	rules    domain.Rules
	searcher *Searcher
	selector *Selector
}

func NewEngine(rules domain.Rules, selector *Selector, parallel bool) *Engine {
	if selector == nil {
		selector = NewSelector(nil)
	}
	return &Engine{
		rules:    rules,
		searcher: NewSearcher(rules, parallel),
		selector: selector,
	}
}

// randomAttempts bounds the random agent before it falls back to a scan.
const randomAttempts = 64

// ChooseMove searches board for mover at the depth the difficulty allows and
// picks randomly among the best moves. The board is never modified.
func (e *Engine) ChooseMove(board domain.Board, mover domain.Side, difficulty domain.Difficulty) (domain.Move, error) {
	if mover != domain.SideA && mover != domain.SideB {
		return domain.Move{}, domain.ErrInvalidMove
	}
	if board.IsFull() {
		return domain.Move{}, domain.ErrNoLegalMove
	}
	if e.rules.Evaluate(&board).Terminal() {
		return domain.Move{}, domain.ErrGameOver
	}

	depth := Depth(e.rules.Type(), difficulty)
	result := e.searcher.Search(board, mover, depth)

	log.Debug().
		Str("component", "bot").
		Str("game_type", string(e.rules.Type())).
		Str("difficulty", string(difficulty)).
		Int("depth", depth).
		Int("score", result.Score).
		Int("ties", len(result.Moves)).
		Int("nodes", result.Nodes).
		Msg("search finished")

	move, err := e.selector.Choose(result.Moves)
	if err == nil {
		if _, _, err = domain.Apply(e.rules, board, move, mover); err == nil {
			return move, nil
		}
	}

	log.Warn().Str("component", "bot").Err(err).Msg("search gave no playable move, using random agent")
	return e.fallbackMove(board, mover)
}

// fallbackMove samples random moves and then scans the open columns in order.
func (e *Engine) fallbackMove(board domain.Board, mover domain.Side) (domain.Move, error) {
	for attempt := 0; attempt < randomAttempts; attempt++ {
		move := e.selector.RandomMove(e.rules)
		if _, _, err := domain.Apply(e.rules, board, move, mover); err == nil {
			return move, nil
		}
	}

	symbols := []domain.Symbol{domain.NoSymbol}
	if e.rules.Type() == domain.TootOtto {
		symbols = domain.Symbols[:]
	}
	for _, col := range board.ValidColumns() {
		for _, sym := range symbols {
			move := domain.Move{Column: col, Symbol: sym}
			if _, _, err := domain.Apply(e.rules, board, move, mover); err == nil {
				return move, nil
			}
		}
	}
	return domain.Move{}, domain.ErrNoLegalMove
}
