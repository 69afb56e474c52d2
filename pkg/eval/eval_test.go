package eval_test

import (
	"context"
	"testing"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	pos, turn, np, fm, err := fen.Decode(f)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(1), pos, turn, np, fm)
}

func TestMaterialSymmetric(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	require.Equal(t, eval.Score(0), eval.Material{}.Evaluate(context.Background(), b))
}

func TestMaterialFavorsExtraQueen(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.Equal(t, eval.NominalValue(board.Queen), eval.Material{}.Evaluate(context.Background(), b))
}

func TestMaterialRelativeToMover(t *testing.T) {
	// The same extra queen, but black to move: Material is always relative
	// to the side to move, so the sign flips.
	b := mustBoard(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	require.Equal(t, -eval.NominalValue(board.Queen), eval.Material{}.Evaluate(context.Background(), b))
}

func TestPSTMirrorsAcrossColors(t *testing.T) {
	white := mustBoard(t, "4k3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	black := mustBoard(t, "4k3/4n3/8/8/8/8/8/4K3 b - - 0 1")

	ws := eval.PST{}.Evaluate(context.Background(), white)
	bs := eval.PST{}.Evaluate(context.Background(), black)
	require.Equal(t, ws, bs)
}

func TestStandardFavorsHealthyPawnStructure(t *testing.T) {
	// Two white pawns on the a-file, no neighbors: doubled and isolated.
	weak := mustBoard(t, "4k3/8/8/8/8/8/P7/P3K3 w - - 0 1")
	// Two pawns on adjacent files (a1, b2) have neither weakness.
	healthy := mustBoard(t, "4k3/8/8/8/8/8/1P6/P3K3 w - - 0 1")

	require.Less(t,
		eval.Standard{}.Evaluate(context.Background(), weak),
		eval.Standard{}.Evaluate(context.Background(), healthy))
}

func TestNominalValueGainCapture(t *testing.T) {
	m := board.Move{Type: board.Capture, Piece: board.Knight, Capture: board.Queen}
	require.Equal(t, eval.NominalValue(board.Queen), eval.NominalValueGain(m))
}

func TestNominalValueGainPromotion(t *testing.T) {
	m := board.Move{Type: board.Promotion, Piece: board.Pawn, Promotion: board.Queen}
	require.Equal(t, eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn), eval.NominalValueGain(m))
}
