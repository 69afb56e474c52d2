package eval

import "fmt"

// Score is a signed centipawn score, always relative to the side to move:
// positive favors whoever is on turn. This is the negamax convention, and it
// means the search never needs to track whose perspective a score is in --
// flipping sign across a ply (`-child`) is always correct.
type Score int32

// MaxPly bounds recursion depth (and therefore killer-table size); it also
// anchors the mate-score encoding below.
const MaxPly = 64

const (
	Draw Score = 0

	// Mate is the magnitude assigned to an immediate mate. A mate proven
	// `plies` full plies deep is reported as Mate-plies (or its negation),
	// so a mate found sooner always outranks one found later, and the
	// ordering is stable under negamax's sign flip at every ply.
	Mate Score = 1_000_000

	Inf    Score = Mate + MaxPly + 1
	NegInf Score = -Inf
)

func (s Score) String() string {
	return fmt.Sprintf("%d", int32(s))
}

// Crop clamps a score into the representable [NegInf, Inf] range, guarding
// against overflow when scores are negated and summed across plies.
func Crop(s Score) Score {
	switch {
	case s > Inf:
		return Inf
	case s < NegInf:
		return NegInf
	default:
		return s
	}
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// MateIn builds the score for a mate delivered plies plies from the current
// node.
func MateIn(plies int) Score {
	return Mate - Score(plies)
}

// MatePlies reports the number of plies to mate encoded in s, if s is a mate
// score at all (within MaxPly of the Mate constant, in either direction).
func (s Score) MatePlies() (plies int, ok bool) {
	abs := s
	if abs < 0 {
		abs = -abs
	}
	if abs <= Mate-MaxPly || abs > Mate {
		return 0, false
	}
	return int(Mate - abs), true
}

// IncrementMateDistance adjusts a mate score returned by a child node for the
// one extra ply it takes to reach it from here: the search discovers mate
// scores at the terminal node (exactly ±Mate, zero plies away) and this
// shaves one off the magnitude at every level the score is negated back up
// through, so the root sees the true distance. Non-mate scores pass through
// unchanged. This is what makes a mate found in fewer plies outscore one
// found deeper in the tree, as required of the search.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > Mate-MaxPly:
		return s - 1
	case s < -(Mate - MaxPly):
		return s + 1
	default:
		return s
	}
}
