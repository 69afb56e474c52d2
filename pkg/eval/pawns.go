package eval

import (
	"context"

	"github.com/aviannet/corvid/pkg/board"
)

// Pawn-structure weights, in centipawns.
const (
	doubledPawnPenalty  Score = 10
	isolatedPawnPenalty Score = 15
	passedPawnBonus     Score = 20
)

// pawnFiles returns, per file, the count of side's pawns on it.
func pawnFiles(pos *board.Position, side board.Color) [8]int {
	var files [8]int
	bb := pos.Pieces(side, board.Pawn)
	for bb != 0 {
		sq, rest := bb.PopSquare()
		bb = rest
		files[sq.File().V()]++
	}
	return files
}

// pawnStructureScore scores side's pawn skeleton: doubled and isolated pawns
// are weaknesses, passed pawns (no enemy pawn able to stop them on their own
// or an adjacent file) are an asset. The result is NOT side-relative; callers
// combine both sides' scores themselves.
func pawnStructureScore(pos *board.Position, side board.Color) Score {
	own := pawnFiles(pos, side)
	opp := pawnFiles(pos, side.Opponent())

	var score Score
	bb := pos.Pieces(side, board.Pawn)
	for bb != 0 {
		sq, rest := bb.PopSquare()
		bb = rest

		file := sq.File().V()
		if own[file] > 1 {
			score -= doubledPawnPenalty
		}
		if !hasAdjacentFilePawn(own, file) {
			score -= isolatedPawnPenalty
		}
		if isPassed(sq, opp) {
			score += passedPawnBonus
		}
	}
	return score
}

func hasAdjacentFilePawn(files [8]int, file int) bool {
	if file > 0 && files[file-1] > 0 {
		return true
	}
	if file < 7 && files[file+1] > 0 {
		return true
	}
	return false
}

// isPassed reports whether the pawn on sq has no opposing pawn on its own or
// an adjacent file. A conservative, rank-agnostic stand-in for the usual
// ahead-of-the-pawn check.
func isPassed(sq board.Square, oppFiles [8]int) bool {
	file := sq.File().V()
	if oppFiles[file] > 0 {
		// Conservative: any opposing pawn on the file is treated as a
		// potential blocker/stopper, regardless of rank.
		return false
	}
	if file > 0 && oppFiles[file-1] > 0 {
		return false
	}
	if file < 7 && oppFiles[file+1] > 0 {
		return false
	}
	return true
}

// pinPenalty scores how exposed side's king is to pins: each of side's
// pieces pinned against its own king costs a fraction of the pinned piece's
// value, grounded on morlock's pkg/eval/pins.go pin detector.
func pinPenalty(pos *board.Position, side board.Color) Score {
	var score Score
	for _, pin := range FindPins(pos, side, board.King) {
		if _, piece, ok := pos.Square(pin.Pinned); ok {
			score -= NominalValue(piece) / 8
		}
	}
	return score
}

// Standard combines PST with pawn-structure and pin-aware terms: the fuller
// default evaluator, layered on top of PST the same way morlock layers its
// own additional terms on a base piece-square evaluation.
type Standard struct{}

func (Standard) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	turn := b.Turn()

	score := PST{}.Evaluate(ctx, b)

	pawns := pawnStructureScore(pos, turn) - pawnStructureScore(pos, turn.Opponent())
	pins := pinPenalty(pos, turn) - pinPenalty(pos, turn.Opponent())

	return score + pawns + pins
}
