package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	pos, turn, np, fm, err := fen.Decode(f)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(1), pos, turn, np, fm)
}

func newSearcher() *search.Searcher {
	return search.NewSearcher(eval.Material{}, search.NewTranspositionTable(search.DefaultCapacity), 1)
}

// mate-in-one: a lone rook delivers back-rank mate (a1a8).
func TestAlphaBetaMateInOne(t *testing.T) {
	b := mustBoard(t, "4k3/8/4K3/8/8/8/8/R7 w - - 0 1")
	s := newSearcher()

	pv := s.Search(context.Background(), b, search.Options{DepthLimit: 3, Budget: time.Second}, nil)
	require.True(t, b.PushMove(pv.Move))
	require.Equal(t, board.Checkmate, b.AdjudicateNoLegalMoves().Reason)
}

func TestAlphaBetaStalemate(t *testing.T) {
	b := mustBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	s := newSearcher()

	pv := s.Search(context.Background(), b, search.Options{DepthLimit: 2, Budget: time.Second}, nil)
	require.True(t, pv.Move.IsNull())
}

// A pawn on the seventh rank must promote to a queen rather than
// under-promote.
func TestAlphaBetaPromotionChoice(t *testing.T) {
	b := mustBoard(t, "8/P7/8/8/8/8/8/4k2K w - - 0 1")
	s := newSearcher()

	pv := s.Search(context.Background(), b, search.Options{DepthLimit: 4, Budget: 500 * time.Millisecond}, nil)
	require.Equal(t, board.Queen, pv.Move.Promotion)
}
