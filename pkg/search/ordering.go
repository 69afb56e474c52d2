package search

import (
	"sort"

	"github.com/aviannet/corvid/pkg/board"
)

// maxPly bounds the killer/history tables and the ply argument move ordering
// accepts; it mirrors eval.MaxPly so a search never indexes past either.
const maxPly = 64

// mvvlvaValue is the small nominal-value table move ordering scores captures
// with -- distinct from eval.NominalValue's centipawn scale.
var mvvlvaValue = [board.NumPieces]int{
	board.Pawn:   1,
	board.Knight: 3,
	board.Bishop: 3,
	board.Rook:   5,
	board.Queen:  9,
	board.King:   10,
}

const (
	killerBonus      = 900
	killerBonus2     = 800
	mvvlvaVictimMult = 100
)

// killerTable holds up to two killer moves per ply: quiet moves that have
// caused a beta cutoff at that ply earlier in the search.
type killerTable [maxPly][2]board.Move

// historyTable rewards quiet moves that have produced cutoffs, weighted by
// the square of the depth at which they did so.
type historyTable [64][64]int

// score assigns m the integer priority move ordering sorts by, per the
// engine's MVV-LVA / killer / history scheme.
func score(m board.Move, killers *killerTable, history *historyTable, ply int) board.Priority {
	var s int

	// Capture and promotion terms are independent and additive: a
	// capture-promotion (e.g. pawn captures onto the back rank while
	// promoting) earns both the MVV-LVA term and the promotion term.
	switch {
	case m.Type == board.EnPassant:
		s += mvvlvaValue[board.Pawn]*mvvlvaVictimMult - mvvlvaValue[m.Piece]
	case m.IsCapture():
		s += mvvlvaValue[m.Capture]*mvvlvaVictimMult - mvvlvaValue[m.Piece]
	}
	if m.IsPromotion() {
		promo := m.Promotion
		if promo == board.NoPiece {
			promo = board.Queen
		}
		s += mvvlvaValue[promo] * mvvlvaVictimMult
	}

	if m.IsQuiet() {
		if ply >= 0 && ply < maxPly {
			switch {
			case m.Equals(killers[ply][0]):
				s += killerBonus
			case m.Equals(killers[ply][1]):
				s += killerBonus2
			}
		}
		s += history[m.From][m.To] / 100
	}
	return board.Priority(s)
}

// order scores every move in place and sorts descending by priority. Ties
// break arbitrarily; the sort need not be stable.
func order(moves []board.Move, killers *killerTable, history *historyTable, ply int) {
	for i, m := range moves {
		moves[i].Priority = score(m, killers, history, ply)
	}
	sort.Slice(moves, func(i, j int) bool {
		return moves[i].Priority > moves[j].Priority
	})
}

// recordCutoff updates the killer and history tables after a quiet move
// causes a beta cutoff at ply, for depth remaining depth.
func recordCutoff(m board.Move, killers *killerTable, history *historyTable, ply, depth int) {
	if !m.IsQuiet() {
		return
	}
	if ply >= 0 && ply < maxPly && !m.Equals(killers[ply][0]) {
		killers[ply][1] = killers[ply][0]
		killers[ply][0] = m
	}
	history[m.From][m.To] += depth * depth
}
