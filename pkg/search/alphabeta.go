package search

import (
	"context"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
)

const (
	maxQDepth           = 16 // quiescence recursion bound, reached from any leaf
	nullMoveMinDepth    = 3
	nullMoveReduction   = 2
	lmrMinDepth         = 3
	lmrMinMoveIndex     = 3
	checkExtensionPlies = 1
	inCheckPenalty      = eval.Score(50) // quiescence stand-pat penalty while in check
)

// alphaBeta is fail-soft negamax alpha-beta search with null-move pruning,
// late-move reductions and check extensions. Scores are negamax-relative:
// positive favors the side to move at this node. allowNull disables a
// further null-move probe directly below one already tried, per the usual
// rule against doing it twice in a row.
func (s *Searcher) alphaBeta(ctx context.Context, b *board.Board, depth, ply int, alpha, beta eval.Score, allowNull bool) eval.Score {
	if s.aborted() {
		return 0
	}
	if s.tick() {
		return 0
	}

	// b.Result() is kept current by PushMove: Draw here covers both
	// threefold repetition and the 50-move (no-progress) rule.
	if b.Result().Outcome == board.Draw {
		return eval.Draw
	}

	hash := b.Hash()
	var ttMove board.Move
	if score, move, ok := s.TT.Probe(hash, depth, alpha, beta); ok {
		return score
	} else {
		ttMove = move
	}

	if depth <= 0 {
		return s.quiescence(ctx, b, alpha, beta, maxQDepth)
	}

	inCheck := b.Position().IsChecked(b.Turn())

	if allowNull && !inCheck && depth >= nullMoveMinDepth {
		b.PushNull()
		score := -s.alphaBeta(ctx, b, depth-1-nullMoveReduction, ply+1, -beta, -beta+1, false)
		b.PopNull()

		if s.aborted() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := b.Position().PseudoLegalMoves(b.Turn(), false)
	orderWithTTMove(moves, ttMove, &s.killers, &s.history, ply)

	hasLegalMove := false
	best := eval.NegInf
	bound := Upper
	var bestMove board.Move
	moveIndex := 0

	for _, m := range moves {
		if !b.PushMove(m) {
			continue // illegal: leaves own king in check
		}
		hasLegalMove = true

		givesCheck := b.Position().IsChecked(b.Turn())

		newDepth := depth - 1
		if givesCheck && depth < eval.MaxPly {
			newDepth += checkExtensionPlies
		}

		applyLMR := depth >= lmrMinDepth && moveIndex >= lmrMinMoveIndex &&
			!m.IsCapture() && !m.IsPromotion() && !inCheck && !givesCheck

		searchDepth := newDepth
		if applyLMR {
			searchDepth = newDepth - 1
		}

		score := -s.alphaBeta(ctx, b, searchDepth, ply+1, -beta, -alpha, true)
		score = eval.IncrementMateDistance(score)

		if applyLMR && score > alpha {
			score = -s.alphaBeta(ctx, b, newDepth, ply+1, -beta, -alpha, true)
			score = eval.IncrementMateDistance(score)
		}

		b.PopMove()
		moveIndex++

		if s.aborted() {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
		}
		if best > alpha {
			alpha = best
			bound = Exact
		}
		if alpha >= beta {
			bound = Lower
			recordCutoff(m, &s.killers, &s.history, ply, depth)
			break
		}
	}

	if !hasLegalMove {
		if inCheck {
			return -eval.Mate
		}
		return eval.Draw
	}

	s.TT.Store(hash, best, depth, bound, bestMove)
	return best
}

// orderWithTTMove scores and sorts moves, giving the transposition table's
// recorded best move (if any) top priority regardless of its own score.
func orderWithTTMove(moves []board.Move, ttMove board.Move, killers *killerTable, history *historyTable, ply int) {
	order(moves, killers, history, ply)
	if ttMove.IsNull() {
		return
	}
	for i, m := range moves {
		if m.Equals(ttMove) {
			moves[0], moves[i] = moves[i], moves[0]
			break
		}
	}
}
