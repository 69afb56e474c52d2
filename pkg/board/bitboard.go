package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares, one bit per Square (bit 0 = H1, bit 63 = A8).
type Bitboard uint64

const EmptyBitboard Bitboard = 0

func (b Bitboard) IsSet(sq Square) bool {
	return b&BitMask(sq) != 0
}

// PopCount returns the number of set squares.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LastPopSquare returns the least-significant set square. Returns 64 if empty.
func (b Bitboard) LastPopSquare() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopSquare clears and returns the least-significant set square.
func (b Bitboard) PopSquare() (Square, Bitboard) {
	sq := b.LastPopSquare()
	return sq, b &^ BitMask(sq)
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for i := ZeroSquare; i < NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			sb.WriteRune('/')
		}
		if b.IsSet(NumSquares - 1 - i) {
			sb.WriteRune('X')
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// BitMask returns the singleton bitboard for the given square.
func BitMask(sq Square) Bitboard {
	return Bitboard(1) << sq
}

// BitRank returns the bitboard of an entire rank.
func BitRank(r Rank) Bitboard {
	return Bitboard(0xff) << (Square(r) << 3)
}

// BitFile returns the bitboard of an entire file.
func BitFile(f File) Bitboard {
	return Bitboard(0x0101010101010101) << Square(f)
}

// PawnAttacks returns the squares a color's pawns (given as a bitboard) attack.
func PawnAttacks(c Color, pawns Bitboard) Bitboard {
	if c == White {
		return ((pawns << 9) &^ BitFile(FileH)) | ((pawns << 7) &^ BitFile(FileA))
	}
	return ((pawns >> 9) &^ BitFile(FileA)) | ((pawns >> 7) &^ BitFile(FileH))
}

// PawnPushes returns the single-step forward squares of a color's pawns that
// land on an empty square.
func PawnPushes(occupied Bitboard, c Color, pawns Bitboard) Bitboard {
	if c == White {
		return (pawns << 8) &^ occupied
	}
	return (pawns >> 8) &^ occupied
}

// PawnPromotionRank is the far rank a color's pawns promote on.
func PawnPromotionRank(c Color) Bitboard {
	if c == White {
		return BitRank(Rank8)
	}
	return BitRank(Rank1)
}

// PawnJumpRank is the rank a color's pawns land on after a two-square jump.
func PawnJumpRank(c Color) Bitboard {
	if c == White {
		return BitRank(Rank4)
	}
	return BitRank(Rank5)
}

// SliderAttacks returns the attack bitboard of a non-pawn piece at sq, given
// the occupancy of the whole board.
func SliderAttacks(occ Rotated, sq Square, piece Piece) Bitboard {
	switch piece {
	case King:
		return KingAttacks(sq)
	case Queen:
		return RookAttacks(occ, sq) | BishopAttacks(occ, sq)
	case Rook:
		return RookAttacks(occ, sq)
	case Bishop:
		return BishopAttacks(occ, sq)
	case Knight:
		return KnightAttacks(sq)
	default:
		panic("invalid slider piece")
	}
}

// KingAttacks returns the king's attack bitboard at sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

var kingAttacks [NumSquares]Bitboard

// KnightAttacks returns the knight's attack bitboard at sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

var knightAttacks [NumSquares]Bitboard

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		one := BitMask(sq)
		king := one | ((one << 1) &^ BitFile(FileH)) | ((one >> 1) &^ BitFile(FileA))
		king |= king<<8 | king>>8
		kingAttacks[sq] = king &^ one

		adj := ((one << 1) &^ BitFile(FileH)) | ((one >> 1) &^ BitFile(FileA))
		skew := ((one << 2) &^ (BitFile(FileG) | BitFile(FileH))) | ((one >> 2) &^ (BitFile(FileA) | BitFile(FileB)))
		knightAttacks[sq] = adj<<16 | adj>>16 | skew<<8 | skew>>8
	}
}

// Rotated holds the same occupancy as a Bitboard in three extra orientations
// (90-degree, and the two 45-degree diagonals) so that rank, file and
// diagonal attacks are all simple table lookups keyed by an 8-bit "rank
// state". The rotations put files and diagonals into contiguous runs of
// bits, the way the vertical/diagonal axes would read if the board were
// physically rotated.
type Rotated struct {
	plain, r90, r45l, r45r Bitboard
}

// NewRotated builds a Rotated view of a plain occupancy bitboard.
func NewRotated(bb Bitboard) Rotated {
	var ret Rotated
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		if bb.IsSet(sq) {
			ret = ret.Toggle(sq)
		}
	}
	return ret
}

// Occupied returns the occupancy in normal (unrotated) orientation.
func (r Rotated) Occupied() Bitboard {
	return r.plain
}

// Toggle flips the given square's membership across all four orientations.
func (r Rotated) Toggle(sq Square) Rotated {
	return Rotated{
		plain: r.plain ^ BitMask(sq),
		r90:   r.r90 ^ BitMask(rotate90[sq]),
		r45l:  r.r45l ^ BitMask(rotate45Left[sq]),
		r45r:  r.r45r ^ BitMask(rotate45Right[sq]),
	}
}

func (r Rotated) String() string {
	return r.plain.String()
}

// numLineStates is the number of possible occupancy patterns along any
// single rank, file or diagonal (an 8-bit line, so 256 states).
const numLineStates = 256

// rotate90 maps a square to its index under a 90-degree rotation, so that
// what was a file becomes a contiguous 8-bit run.
var rotate90 = [NumSquares]Square{
	0, 8, 16, 24, 32, 40, 48, 56,
	1, 9, 17, 25, 33, 41, 49, 57,
	2, 10, 18, 26, 34, 42, 50, 58,
	3, 11, 19, 27, 35, 43, 51, 59,
	4, 12, 20, 28, 36, 44, 52, 60,
	5, 13, 21, 29, 37, 45, 53, 61,
	6, 14, 22, 30, 38, 46, 54, 62,
	7, 15, 23, 31, 39, 47, 55, 63,
}

// RookAttacks returns the rook's attack bitboard at sq given the board's
// occupancy, by combining a rank-line lookup and a file-line lookup.
func RookAttacks(occ Rotated, sq Square) Bitboard {
	rankState := occ.plain >> (sq.Rank() << 3) & 0xff
	fileState := occ.r90 >> (sq.File() << 3) & 0xff
	return rookRankAttacks[sq][rankState] | rookFileAttacks[sq][fileState]
}

var (
	rookRankAttacks [NumSquares][numLineStates]Bitboard
	rookFileAttacks [NumSquares][numLineStates]Bitboard
)

func init() {
	// For each square and each possible 8-bit occupancy of its rank/file,
	// precompute the rook's reach: ray out each direction, stopping at (and
	// including) the first occupied square.
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := EmptyBitboard; state < numLineStates; state++ {
			var tmp Bitboard
			for i := Square(sq.File()) + 1; i < 8; i++ {
				tmp |= BitMask(i + Square(sq.Rank()<<3))
				if BitMask(i)&state != 0 {
					break
				}
			}
			for i := int(sq.File()) - 1; i > -1; i-- {
				tmp |= BitMask(Square(i) + Square(sq.Rank()<<3))
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			rookRankAttacks[sq][state] = tmp
		}

		for state := EmptyBitboard; state < numLineStates; state++ {
			var tmp Bitboard
			for i := Square(sq.Rank()) + 1; i < 8; i++ {
				tmp |= BitMask(Square(sq.File()) + i<<3)
				if BitMask(i)&state != 0 {
					break
				}
			}
			for i := int(sq.Rank()) - 1; i > -1; i-- {
				tmp |= BitMask(Square(sq.File()) + Square(i<<3))
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			rookFileAttacks[sq][state] = tmp
		}
	}
}

// rotate45Left/rotate45Right map a square to its index under the two
// diagonal rotations; mask45Left/mask45Right give the valid bit-width of the
// diagonal line through that square, and off45Left/off45Right the bit offset
// of that line within the rotated bitboard.
var rotate45Left = [NumSquares]Square{
	28, 21, 15, 10, 6, 3, 1, 0,
	36, 29, 22, 16, 11, 7, 4, 2,
	43, 37, 30, 23, 17, 12, 8, 5,
	49, 44, 38, 31, 24, 18, 13, 9,
	54, 50, 45, 39, 32, 25, 19, 14,
	58, 55, 51, 46, 40, 33, 26, 20,
	61, 59, 56, 52, 47, 41, 34, 27,
	63, 62, 60, 57, 53, 48, 42, 35,
}

var mask45Left = [NumSquares]int{
	255, 127, 63, 31, 15, 7, 3, 1,
	127, 255, 127, 63, 31, 15, 7, 3,
	63, 127, 255, 127, 63, 31, 15, 7,
	31, 63, 127, 255, 127, 63, 31, 15,
	15, 31, 63, 127, 255, 127, 63, 31,
	7, 15, 31, 63, 127, 255, 127, 63,
	3, 7, 15, 31, 63, 127, 255, 127,
	1, 3, 7, 15, 31, 63, 127, 255,
}

var off45Left = [NumSquares]int{
	28, 21, 15, 10, 6, 3, 1, 0,
	36, 28, 21, 15, 10, 6, 3, 1,
	43, 36, 28, 21, 15, 10, 6, 3,
	49, 43, 36, 28, 21, 15, 10, 6,
	54, 49, 43, 36, 28, 21, 15, 10,
	58, 54, 49, 43, 36, 28, 21, 15,
	61, 58, 54, 49, 43, 36, 28, 21,
	63, 61, 58, 54, 49, 43, 36, 28,
}

var rotate45Right = [NumSquares]Square{
	0, 1, 3, 6, 10, 15, 21, 28,
	2, 4, 7, 11, 16, 22, 29, 36,
	5, 8, 12, 17, 23, 30, 37, 43,
	9, 13, 18, 24, 31, 38, 44, 49,
	14, 19, 25, 32, 39, 45, 50, 54,
	20, 26, 33, 40, 46, 51, 55, 58,
	27, 34, 41, 47, 52, 56, 59, 61,
	35, 42, 48, 53, 57, 60, 62, 63,
}

var mask45Right = [NumSquares]int{
	1, 3, 7, 15, 31, 63, 127, 255,
	3, 7, 15, 31, 63, 127, 255, 127,
	7, 15, 31, 63, 127, 255, 127, 63,
	15, 31, 63, 127, 255, 127, 63, 31,
	31, 63, 127, 255, 127, 63, 31, 15,
	63, 127, 255, 127, 63, 31, 15, 7,
	127, 255, 127, 63, 31, 15, 7, 3,
	255, 127, 63, 31, 15, 7, 3, 1,
}

var off45Right = [NumSquares]int{
	0, 1, 3, 6, 10, 15, 21, 28,
	1, 3, 6, 10, 15, 21, 28, 36,
	3, 6, 10, 15, 21, 28, 36, 43,
	6, 10, 15, 21, 28, 36, 43, 49,
	10, 15, 21, 28, 36, 43, 49, 54,
	15, 21, 28, 36, 43, 49, 54, 58,
	21, 28, 36, 43, 49, 54, 58, 61,
	28, 36, 43, 49, 54, 58, 61, 63,
}

// BishopAttacks returns the bishop's attack bitboard at sq given the board's
// occupancy, combining both diagonal lookups.
func BishopAttacks(occ Rotated, sq Square) Bitboard {
	diagL := int(occ.r45l>>off45Left[sq]) & mask45Left[sq]
	diagR := int(occ.r45r>>off45Right[sq]) & mask45Right[sq]
	return bishopLeftAttacks[sq][diagL] | bishopRightAttacks[sq][diagR]
}

var (
	bishopLeftAttacks  [NumSquares][numLineStates]Bitboard
	bishopRightAttacks [NumSquares][numLineStates]Bitboard
)

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := EmptyBitboard; state <= Bitboard(mask45Left[sq]); state++ {
			var tmp Bitboard
			for i := 1; i < minInt(8-sq.Rank(), 8-sq.File()); i++ {
				tmp |= BitMask(Square(sq.Rank().V()+i)<<3 + Square(sq.File().V()+i))
				if BitMask(Square(minInt(sq.Rank(), sq.File())+i))&state != 0 {
					break
				}
			}
			for i := 1; i < minInt(sq.Rank(), sq.File())+1; i++ {
				tmp |= BitMask(Square(sq.Rank().V()-i)<<3 + Square(sq.File().V()-i))
				if BitMask(Square(minInt(sq.Rank(), sq.File())-i))&state != 0 {
					break
				}
			}
			bishopLeftAttacks[sq][state] = tmp
		}

		for state := EmptyBitboard; state <= Bitboard(mask45Right[sq]); state++ {
			var tmp Bitboard
			for i := 1; i < minInt(8-sq.Rank(), sq.File()+1); i++ {
				tmp |= BitMask(Square(sq.Rank().V()+i)<<3 + Square(sq.File().V()-i))
				if BitMask(Square(minInt(sq.Rank(), 7-sq.File())+i))&state != 0 {
					break
				}
			}
			for i := 1; i < minInt(sq.Rank()+1, 8-sq.File()); i++ {
				tmp |= BitMask(Square(sq.Rank().V()-i)<<3 + Square(sq.File().V()+i))
				if BitMask(Square(minInt(sq.Rank(), 7-sq.File())-i))&state != 0 {
					break
				}
			}
			bishopRightAttacks[sq][state] = tmp
		}
	}
}

func minInt(r Rank, f File) int {
	if int(r) < int(f) {
		return int(r)
	}
	return int(f)
}
