package search

import (
	"context"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
)

// quiescence extends capture sequences past the nominal leaf to avoid the
// horizon effect. Scores are negamax-relative: positive favors the side to
// move at this node.
func (s *Searcher) quiescence(ctx context.Context, b *board.Board, alpha, beta eval.Score, qdepth int) eval.Score {
	if s.aborted() {
		return 0
	}
	if s.tick() {
		return 0
	}

	if qdepth <= 0 {
		return s.Eval.Evaluate(ctx, b)
	}

	inCheck := b.Position().IsChecked(b.Turn())
	standPat := s.Eval.Evaluate(ctx, b)
	if inCheck {
		// Spec §4.6 step 4: penalize being in check so it's never preferred
		// to a quieter alternative. Negamax form collapses the white-side
		// "-=" / black-side "+=" split into a single side-to-move-relative
		// subtraction.
		standPat -= inCheckPenalty
	}

	if !inCheck {
		if standPat >= beta {
			return beta
		}
		alpha = eval.Max(alpha, standPat)
	}

	moves := b.Position().PseudoLegalMoves(b.Turn(), !inCheck)
	order(moves, &s.killers, &s.history, -1)

	hasLegalMove := false
	for _, m := range moves {
		if !b.PushMove(m) {
			continue // illegal: leaves own king in check
		}
		hasLegalMove = true

		score := -s.quiescence(ctx, b, -beta, -alpha, qdepth-1)
		score = eval.IncrementMateDistance(score)
		b.PopMove()

		if s.aborted() {
			return 0
		}
		if score >= beta {
			return beta
		}
		alpha = eval.Max(alpha, score)
	}

	if !hasLegalMove {
		if inCheck {
			return -eval.Mate
		}
		return standPat
	}
	return alpha
}
