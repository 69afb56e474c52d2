package search

import (
	"testing"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/stretchr/testify/require"
)

func TestOrderCapturesByMVVLVA(t *testing.T) {
	pawnTakesQueen := board.Move{Type: board.Capture, Piece: board.Pawn, Capture: board.Queen}
	queenTakesPawn := board.Move{Type: board.Capture, Piece: board.Queen, Capture: board.Pawn}
	moves := []board.Move{queenTakesPawn, pawnTakesQueen}

	var killers killerTable
	var history historyTable
	order(moves, &killers, &history, 0)

	got := moves[0]
	got.Priority = 0 // order stamps its score into Priority; compare the move itself
	require.Equal(t, pawnTakesQueen, got, "capturing a queen with a pawn must outrank a queen capturing a pawn")
}

func TestOrderPromotionPrefersQueen(t *testing.T) {
	toQueen := board.Move{Type: board.Promotion, Piece: board.Pawn, Promotion: board.Queen}
	toKnight := board.Move{Type: board.Promotion, Piece: board.Pawn, Promotion: board.Knight}
	moves := []board.Move{toKnight, toQueen}

	var killers killerTable
	var history historyTable
	order(moves, &killers, &history, 0)

	got := moves[0]
	got.Priority = 0 // order stamps its score into Priority; compare the move itself
	require.Equal(t, toQueen, got)
}

func TestScoreCapturePromotionAddsBothTerms(t *testing.T) {
	capturePromotion := board.Move{Type: board.CapturePromotion, Piece: board.Pawn, Capture: board.Queen, Promotion: board.Queen}
	captureOnly := board.Move{Type: board.Capture, Piece: board.Pawn, Capture: board.Queen}

	var killers killerTable
	var history historyTable

	capturePromotionScore := score(capturePromotion, &killers, &history, 0)
	captureOnlyScore := score(captureOnly, &killers, &history, 0)

	want := mvvlvaValue[board.Queen]*mvvlvaVictimMult - mvvlvaValue[board.Pawn] + mvvlvaValue[board.Queen]*mvvlvaVictimMult
	require.Equal(t, board.Priority(want), capturePromotionScore)
	require.Greater(t, capturePromotionScore, captureOnlyScore, "a capture that also promotes must outrank the same capture alone")
}

func TestOrderKillerOutranksQuiet(t *testing.T) {
	killer := board.Move{Type: board.Normal, From: board.E2, To: board.E4, Piece: board.Pawn}
	other := board.Move{Type: board.Normal, From: board.G1, To: board.F3, Piece: board.Knight}
	moves := []board.Move{other, killer}

	var killers killerTable
	killers[0][0] = killer
	var history historyTable
	order(moves, &killers, &history, 0)

	got := moves[0]
	got.Priority = 0 // order stamps its score into Priority; compare the move itself
	require.Equal(t, killer, got)
}

func TestRecordCutoffShiftsKillersAndAccumulatesHistory(t *testing.T) {
	var killers killerTable
	var history historyTable

	first := board.Move{Type: board.Normal, From: board.E2, To: board.E4, Piece: board.Pawn}
	second := board.Move{Type: board.Normal, From: board.D2, To: board.D4, Piece: board.Pawn}

	recordCutoff(first, &killers, &history, 3, 5)
	require.Equal(t, first, killers[3][0])

	recordCutoff(second, &killers, &history, 3, 5)
	require.Equal(t, second, killers[3][0])
	require.Equal(t, first, killers[3][1])

	require.Equal(t, 25, history[board.E2][board.E4]) // depth^2 = 5^2
	require.Equal(t, 25, history[board.D2][board.D4])
}

func TestRecordCutoffIgnoresCapturesAndPromotions(t *testing.T) {
	var killers killerTable
	var history historyTable

	capture := board.Move{Type: board.Capture, From: board.E4, To: board.D5, Piece: board.Pawn, Capture: board.Pawn}
	recordCutoff(capture, &killers, &history, 0, 4)

	require.True(t, killers[0][0].IsNull())
}
