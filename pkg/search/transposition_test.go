package search_test

import (
	"math/rand"
	"testing"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTableMiss(t *testing.T) {
	tt := search.NewTranspositionTable(16)
	a := board.ZobristHash(rand.Uint64())

	_, _, ok := tt.Probe(a, 2, eval.NegInf, eval.Inf)
	require.False(t, ok)
}

func TestTranspositionTableStoreAndProbe(t *testing.T) {
	tt := search.NewTranspositionTable(16)
	a := board.ZobristHash(rand.Uint64())
	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}

	tt.Store(a, 42, 3, search.Exact, m)

	score, move, ok := tt.Probe(a, 3, eval.NegInf, eval.Inf)
	require.True(t, ok)
	require.Equal(t, eval.Score(42), score)
	require.Equal(t, m, move)

	_, _, ok = tt.Probe(a, 4, eval.NegInf, eval.Inf)
	require.False(t, ok, "a shallower stored depth must miss a deeper probe")
}

func TestTranspositionTableBoundSemantics(t *testing.T) {
	tt := search.NewTranspositionTable(16)
	a := board.ZobristHash(rand.Uint64())

	tt.Store(a, 50, 3, search.Lower, board.Move{})
	score, _, ok := tt.Probe(a, 3, eval.NegInf, 40)
	require.True(t, ok, "lower bound >= beta is a cutoff")
	require.Equal(t, eval.Score(50), score)

	_, _, ok = tt.Probe(a, 3, eval.NegInf, 60)
	require.False(t, ok, "lower bound below beta is not conclusive")

	tt.Store(a, -50, 3, search.Upper, board.Move{})
	score, _, ok = tt.Probe(a, 3, -40, eval.Inf)
	require.True(t, ok, "upper bound <= alpha is a cutoff")
	require.Equal(t, eval.Score(-50), score)
}

func TestTranspositionTableCapacity(t *testing.T) {
	tt := search.NewTranspositionTable(2)

	tt.Store(1, 1, 1, search.Exact, board.Move{})
	tt.Store(2, 2, 1, search.Exact, board.Move{})
	require.Equal(t, 2, tt.Len())

	tt.Store(3, 3, 1, search.Exact, board.Move{}) // at cap, unseen key: dropped
	require.Equal(t, 2, tt.Len())
	_, _, ok := tt.Probe(3, 1, eval.NegInf, eval.Inf)
	require.False(t, ok)

	tt.Store(1, 99, 1, search.Exact, board.Move{}) // existing key: always overwrites
	score, _, ok := tt.Probe(1, 1, eval.NegInf, eval.Inf)
	require.True(t, ok)
	require.Equal(t, eval.Score(99), score)
}
