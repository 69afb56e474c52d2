package eval

import (
	"sort"

	"github.com/aviannet/corvid/pkg/board"
)

// attackerPieces enumerates every piece type that can capture via
// SliderAttacks; pawns are handled separately since their attack direction
// depends on color.
var attackerPieces = [5]board.Piece{board.King, board.Queen, board.Rook, board.Knight, board.Bishop}

// FindCapture returns the pieces of the given color that directly target sq.
func FindCapture(pos *board.Position, side board.Color, sq board.Square) []board.Placement {
	var ret []board.Placement

	for _, piece := range attackerPieces {
		bb := board.SliderAttacks(pos.Rotated(), sq, piece) & pos.Pieces(side, piece)
		for bb != 0 {
			from, rest := bb.PopSquare()
			bb = rest
			ret = append(ret, board.Placement{Piece: piece, Color: side, Square: from})
		}
	}

	bb := board.PawnAttacks(side.Opponent() /* reverse direction */, board.BitMask(sq)) & pos.Pieces(side, board.Pawn)
	for bb != 0 {
		from, rest := bb.PopSquare()
		bb = rest
		ret = append(ret, board.Placement{Piece: board.Pawn, Color: side, Square: from})
	}

	return ret
}

// SortByNominalValue orders the placement list by nominal material value, low to high.
func SortByNominalValue(pieces []board.Placement) []board.Placement {
	sort.SliceStable(pieces, func(i, j int) bool {
		return NominalValue(pieces[i].Piece) < NominalValue(pieces[j].Piece)
	})
	return pieces
}

// StaticExchange estimates the net material result of capturing on sq with a
// piece of type capturing, taking captured: if color (the defending side)
// has a recapture available, the attacking piece is assumed lost to the
// cheapest one. A one-ply approximation -- it doesn't chase the exchange
// past the first recapture -- used for diagnostics, not search pruning.
func StaticExchange(pos *board.Position, color board.Color, sq board.Square, capturing, captured board.Piece) Score {
	gain := NominalValue(captured)
	if defenders := SortByNominalValue(FindCapture(pos, color, sq)); len(defenders) > 0 {
		gain -= NominalValue(capturing)
	}
	return gain
}
