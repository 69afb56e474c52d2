package search

import (
	"context"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
)

// Minimax is a naive, unpruned negamax search: no transposition table, no
// move ordering, no null-move, LMR or check extensions. It exists purely as
// a reference to validate alphaBeta against -- when no pruning heuristic
// would fire, the two must agree exactly.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, b *board.Board, depth int) eval.Score {
	return m.search(ctx, b, depth)
}

func (m Minimax) search(ctx context.Context, b *board.Board, depth int) eval.Score {
	if b.Result().Outcome == board.Draw {
		return eval.Draw
	}
	if depth == 0 {
		return m.Eval.Evaluate(ctx, b)
	}

	hasLegalMove := false
	best := eval.NegInf

	for _, move := range b.Position().PseudoLegalMoves(b.Turn(), false) {
		if !b.PushMove(move) {
			continue
		}
		hasLegalMove = true

		score := eval.IncrementMateDistance(-m.search(ctx, b, depth-1))
		b.PopMove()

		if score > best {
			best = score
		}
	}

	if !hasLegalMove {
		if b.Position().IsChecked(b.Turn()) {
			return -eval.Mate
		}
		return eval.Draw
	}
	return best
}
