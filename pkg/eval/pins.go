package eval

import "github.com/aviannet/corvid/pkg/board"

// Pin represents a pinned piece. A pinned piece cannot attack anything but
// the attacker itself, if the relative value of attacker/target is high
// enough.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins targeting the given piece.
func FindPins(pos *board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	bb := pos.Pieces(side, piece)
	for bb != 0 {
		target, rest := bb.PopSquare()
		bb = rest

		// (1) Rook/Queen pins.

		rooks := board.RookAttacks(pos.Rotated(), target)
		pins := rooks & pos.Pieces(side, board.NoPiece)
		for pins != 0 {
			pinned, r := pins.PopSquare()
			pins = r

			attackers := pos.Pieces(side.Opponent(), board.Queen) | pos.Pieces(side.Opponent(), board.Rook)

			candidate := (board.RookAttacks(pos.Rotated().Toggle(pinned), target) &^ rooks) & attackers
			if candidate != 0 {
				attacker := candidate.LastPopSquare()
				ret = append(ret, Pin{Attacker: attacker, Pinned: pinned, Target: target})
			}
		}

		// (2) Bishop/Queen pins.

		bishops := board.BishopAttacks(pos.Rotated(), target)
		pins = bishops & pos.Pieces(side, board.NoPiece)
		for pins != 0 {
			pinned, r := pins.PopSquare()
			pins = r

			attackers := pos.Pieces(side.Opponent(), board.Queen) | pos.Pieces(side.Opponent(), board.Bishop)

			candidate := (board.BishopAttacks(pos.Rotated().Toggle(pinned), target) &^ bishops) & attackers
			if candidate != 0 {
				attacker := candidate.LastPopSquare()
				ret = append(ret, Pin{Attacker: attacker, Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
