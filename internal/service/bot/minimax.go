package bot

import "github.com/iamasit07/connect4-toototto/internal/domain"

// Minimax is the unpruned search with the same scoring as Searcher.Search.
// It visits every node and exists to check the pruned search against.
func Minimax(rules domain.Rules, board domain.Board, mover domain.Side, bound int) int {
	best := -scoreInf
	for _, move := range rules.Moves(&board) {
		child, _, err := domain.Apply(rules, board, move, mover)
		if err != nil {
			continue
		}
		best = max(best, minimaxValue(rules, &child, mover, 0, bound))
	}
	return best
}

func minimaxValue(rules domain.Rules, b *domain.Board, mover domain.Side, depth, bound int) int {
	eval := rules.Evaluate(b)
	if eval.Terminal() || depth >= bound {
		return scoreState(eval, mover, depth)
	}

	maximizing := depth%2 != 0
	player := mover
	best := -scoreInf
	if !maximizing {
		player = mover.Opponent()
		best = scoreInf
	}
	for _, move := range rules.Moves(b) {
		child, _, err := domain.Apply(rules, *b, move, player)
		if err != nil {
			continue
		}
		v := minimaxValue(rules, &child, mover, depth+1, bound)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}
