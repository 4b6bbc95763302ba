package bot

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

const (
	// WinScore outweighs any heuristic score (at most 69 windows * 64).
	WinScore = 999999
	scoreInf = 1 << 30
)

type SearchResult struct {
	Score int
	// Moves holds every root move that reached Score, in generation order.
	Moves []domain.Move
	Nodes int
}

// Searcher runs depth-limited minimax with alpha-beta pruning for one variant.
type Searcher struct {
	Rules domain.Rules
	// Parallel searches each root move in its own goroutine.
	Parallel bool
}

func NewSearcher(rules domain.Rules, parallel bool) *Searcher {
	return &Searcher{Rules: rules, Parallel: parallel}
}

// run carries the fixed parameters of one search down the recursion.
type run struct {
	rules domain.Rules
	mover domain.Side
	bound int
	nodes int
}

// scoreState scores a state reached at the given depth from mover's point of
// view. Earlier wins score higher and earlier losses lower.
func scoreState(eval domain.Evaluation, mover domain.Side, depth int) int {
	penalty := depth * depth
	switch eval.Winner {
	case mover:
		return WinScore - penalty
	case mover.Opponent():
		return -WinScore - penalty
	}
	return int(mover)*eval.Score - penalty
}

func (r *run) value(b *domain.Board, depth, alpha, beta int) int {
	r.nodes++
	eval := r.rules.Evaluate(b)
	if eval.Terminal() || depth >= r.bound {
		return scoreState(eval, r.mover, depth)
	}
	// the state at an even depth was reached by the searching side
	if depth%2 == 0 {
		return r.minState(b, depth+1, alpha, beta)
	}
	return r.maxState(b, depth+1, alpha, beta)
}

func (r *run) maxState(b *domain.Board, depth, alpha, beta int) int {
	best := -scoreInf
	for _, move := range r.rules.Moves(b) {
		child, _, err := domain.Apply(r.rules, *b, move, r.mover)
		if err != nil {
			continue
		}
		v := r.value(&child, depth, alpha, beta)
		if v > best {
			best = v
		}
		if best > beta {
			return best
		}
		alpha = max(alpha, best)
	}
	return best
}

func (r *run) minState(b *domain.Board, depth, alpha, beta int) int {
	best := scoreInf
	opponent := r.mover.Opponent()
	for _, move := range r.rules.Moves(b) {
		child, _, err := domain.Apply(r.rules, *b, move, opponent)
		if err != nil {
			continue
		}
		v := r.value(&child, depth, alpha, beta)
		if v < best {
			best = v
		}
		if best < alpha {
			return best
		}
		beta = min(beta, best)
	}
	return best
}

// Search scores every legal move mover has on board and returns the best
// score together with all moves tied on it. Recursion stops at terminal
// states or once depth reaches bound.
func (s *Searcher) Search(board domain.Board, mover domain.Side, bound int) SearchResult {
	moves := s.Rules.Moves(&board)
	if len(moves) == 0 {
		return SearchResult{Score: -scoreInf}
	}
	if s.Parallel {
		return s.searchParallel(board, mover, bound, moves)
	}

	r := &run{rules: s.Rules, mover: mover, bound: bound}
	result := SearchResult{Score: -scoreInf}
	for _, move := range moves {
		child, _, err := domain.Apply(s.Rules, board, move, mover)
		if err != nil {
			continue
		}
		// one below the best keeps equal scores exact instead of cut-off bounds
		alpha := -scoreInf
		if result.Score > -scoreInf {
			alpha = result.Score - 1
		}
		v := r.value(&child, 0, alpha, scoreInf)
		switch {
		case v > result.Score:
			result.Score = v
			result.Moves = []domain.Move{move}
		case v == result.Score:
			result.Moves = append(result.Moves, move)
		}
	}
	result.Nodes = r.nodes
	return result
}

func (s *Searcher) searchParallel(board domain.Board, mover domain.Side, bound int, moves []domain.Move) SearchResult {
	scores := make([]int, len(moves))
	nodes := make([]int, len(moves))
	legal := make([]bool, len(moves))

	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, move := range moves {
		i, move := i, move
		g.Go(func() error {
			child, _, err := domain.Apply(s.Rules, board, move, mover)
			if err != nil {
				return nil
			}
			r := &run{rules: s.Rules, mover: mover, bound: bound}
			scores[i] = r.value(&child, 0, -scoreInf, scoreInf)
			nodes[i] = r.nodes
			legal[i] = true
			return nil
		})
	}
	_ = g.Wait()

	result := SearchResult{Score: -scoreInf}
	for i, move := range moves {
		if !legal[i] {
			continue
		}
		result.Nodes += nodes[i]
		switch {
		case scores[i] > result.Score:
			result.Score = scores[i]
			result.Moves = []domain.Move{move}
		case scores[i] == result.Score:
			result.Moves = append(result.Moves, move)
		}
	}
	return result
}
