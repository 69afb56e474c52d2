package search

import (
	"context"
	"time"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
)

// aspirationWindow is the half-width of the narrow window centered on the
// previous iteration's score, used from depth 3 on.
const aspirationWindow = 50

// InfoFunc is called once per completed iterative-deepening iteration, for
// the protocol front-end to emit a UCI-style info line.
type InfoFunc func(PV)

// Search runs iterative deepening from b's current position until opt's
// depth limit or time budget is exhausted, reporting each completed
// iteration to info. The call is synchronous: it returns once the depth
// limit or deadline is reached or Abort is called. Engine.Analyze runs it on
// its own goroutine so the front-end keeps reading protocol commands.
func (s *Searcher) Search(ctx context.Context, b *board.Board, opt Options, info InfoFunc) PV {
	maxDepth := opt.DepthLimit
	if maxDepth <= 0 || maxDepth > eval.MaxPly {
		maxDepth = eval.MaxPly
	}

	s.reset(opt.Budget)

	roots := board.GenerateLegal(b.Position(), b.Turn(), false)
	if len(roots) == 0 {
		return PV{Move: board.NullMove}
	}
	order(roots, &s.killers, &s.history, 0)

	var best PV
	havePrevScore := false
	var prevScore eval.Score

	for depth := 1; depth <= maxDepth; depth++ {
		start := time.Now()

		alpha, beta := eval.NegInf, eval.Inf
		if depth >= 3 && havePrevScore {
			alpha = eval.Crop(prevScore - aspirationWindow)
			beta = eval.Crop(prevScore + aspirationWindow)
		}

		type scored struct {
			move  board.Move
			score eval.Score
		}
		var results []scored
		iterBest := eval.NegInf
		curAlpha := alpha
		aborted := false

		for _, m := range roots {
			if !b.PushMove(m) {
				continue // unreachable: roots are pre-filtered legal
			}
			score := eval.IncrementMateDistance(-s.alphaBeta(ctx, b, depth-1, 1, -beta, -curAlpha, true))
			b.PopMove()

			if s.aborted() {
				aborted = true
				break
			}

			if score <= alpha || score >= beta {
				// Outside the aspiration window: re-search with the full range.
				b.PushMove(m)
				score = eval.IncrementMateDistance(-s.alphaBeta(ctx, b, depth-1, 1, eval.NegInf, eval.Inf, true))
				b.PopMove()

				if s.aborted() {
					aborted = true
					break
				}
			}

			results = append(results, scored{m, score})
			if score > curAlpha {
				curAlpha = score
			}
			if score > iterBest {
				iterBest = score
			}
		}

		if aborted || len(results) == 0 {
			break // keep the previous iteration's best
		}

		var tied []board.Move
		for _, r := range results {
			if r.score == iterBest {
				tied = append(tied, r.move)
			}
		}
		chosen := tied[s.rand.Intn(len(tied))]

		pv := PV{Depth: depth, Move: chosen, Score: iterBest, Nodes: s.nodes.Load(), Time: time.Since(start)}
		best = pv
		if info != nil {
			info(pv)
		}

		prevScore, havePrevScore = iterBest, true
		moveToFront(roots, chosen)

		if plies, ok := iterBest.MatePlies(); ok && plies <= depth {
			break // forced mate found within this iteration's full-width search
		}
	}

	return best
}

// moveToFront moves m to the head of moves, preserving the relative order of
// the rest, so the next iteration's loop tries last iteration's best move
// first.
func moveToFront(moves []board.Move, m board.Move) {
	for i, c := range moves {
		if c.Equals(m) {
			copy(moves[1:i+1], moves[:i])
			moves[0] = c
			return
		}
	}
}
