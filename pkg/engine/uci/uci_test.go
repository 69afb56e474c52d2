package uci

import (
	"testing"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/stretchr/testify/require"
)

// printPV's mate-distance conversion (moves = (plies+1)/2) is the resolution
// of the spec's mate-distance Open Question: "mate N" means N full moves to
// mate, not plies, and the conversion happens once here rather than inside
// the negamax recursion.
func TestPrintPVMateDistanceConversion(t *testing.T) {
	cases := []struct {
		name  string
		plies int
		want  string
	}{
		{"mate in one ply is mate in one move", 1, "score mate 1"},
		{"mate in five plies is mate in three moves", 5, "score mate 3"},
		{"mate in six plies is mate in three moves", 6, "score mate 3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pv := search.PV{Move: board.Move{From: board.E2, To: board.E4}, Score: eval.MateIn(c.plies)}
			require.Contains(t, printPV(pv), c.want)
		})
	}
}

// A losing mate score (the side to move is the one being mated) prints as a
// negative move count.
func TestPrintPVMateDistanceConversionLosing(t *testing.T) {
	pv := search.PV{Move: board.Move{From: board.E2, To: board.E4}, Score: -eval.MateIn(5)}
	require.Contains(t, printPV(pv), "score mate -3")
}

// A non-mate score prints as centipawns, never as a mate distance.
func TestPrintPVCentipawnScore(t *testing.T) {
	pv := search.PV{Move: board.Move{From: board.E2, To: board.E4}, Score: eval.Score(214)}
	require.Contains(t, printPV(pv), "score cp 214")
}
