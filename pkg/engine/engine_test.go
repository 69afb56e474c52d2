package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/engine"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/aviannet/corvid/pkg/search/searchctl"
	"github.com/stretchr/testify/require"
)

func TestEngineMoveAndTakeBack(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "corvid", eval.Material{})

	require.NoError(t, e.Move(ctx, "e2e4"))
	require.Error(t, e.Move(ctx, "e2e4"), "replaying a move from the wrong side to move is invalid")

	require.NoError(t, e.TakeBack(ctx))
	require.Equal(t, fen.Initial, e.Position())
}

func TestEngineAnalyzeReturnsAMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "corvid", eval.Material{})

	out, err := e.Analyze(ctx, searchctl.Options{GoParams: searchctl.GoParams{MoveTime: 200 * time.Millisecond}})
	require.NoError(t, err)

	var last search.PV
	for pv := range out {
		last = pv
	}
	require.False(t, last.Move.IsNull())
}

func TestEngineHaltWithNoActiveSearchErrors(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "corvid", eval.Material{})

	_, err := e.Halt(ctx)
	require.Error(t, err)
}

func TestEngineAnalyzeUsesBookWhenAvailable(t *testing.T) {
	ctx := context.Background()
	book, err := engine.NewBook([]engine.Line{{"e2e4"}}, 1)
	require.NoError(t, err)

	e := engine.New(ctx, "test", "corvid", eval.Material{}, engine.WithBook(book))

	out, err := e.Analyze(ctx, searchctl.Options{})
	require.NoError(t, err)

	pv, ok := <-out
	require.True(t, ok)
	require.Equal(t, "e2e4", pv.Move.String())

	_, ok = <-out
	require.False(t, ok, "book hit closes the channel after the single synthetic PV")
}
