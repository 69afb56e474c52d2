// Package board contains the chess position representation: squares,
// pieces, moves, bitboard attack generation and the game-history wrapper
// that tracks draw conditions.
package board

import "fmt"

const (
	repetitionLimit    = 3
	noprogressPlyLimit = 100 // 50-move rule, counted in plies
)

// node is one position in a game's history, linked both ways so that
// PushMove/PopMove never need to copy the positions that came before or
// after the current one.
type node struct {
	pos        *Position
	hash       ZobristHash
	noprogress int

	next Move // the move played from this node, if not current
	prev *node
}

// Board is a position plus the game history and bookkeeping (side to move,
// move counters, repetition table) needed to adjudicate draws. Not
// thread-safe; callers that want to explore variations concurrently should
// Fork first.
type Board struct {
	zt          *ZobristTable
	repetitions map[ZobristHash]int

	fullmoves int
	turn      Color
	result    Result
	current   *node
}

// NewBoard builds a Board rooted at pos.
func NewBoard(zt *ZobristTable, pos *Position, turn Color, noprogress, fullmoves int) *Board {
	current := &node{
		pos:        pos,
		noprogress: noprogress,
		hash:       zt.Hash(pos, turn),
	}

	return &Board{
		zt:          zt,
		repetitions: map[ZobristHash]int{current.hash: 1},
		fullmoves:   fullmoves,
		turn:        turn,
		current:     current,
	}
}

// Fork branches a new Board sharing the history up to (and including) the
// current node. The shared history must not be mutated through the
// original board afterwards, or the fork's forward-move pointers go stale.
func (b *Board) Fork() *Board {
	fork := &Board{
		zt:          b.zt,
		repetitions: make(map[ZobristHash]int, len(b.repetitions)),
		fullmoves:   b.fullmoves,
		turn:        b.turn,
		result:      b.result,
		current: &node{
			pos:        b.current.pos,
			hash:       b.current.hash,
			noprogress: b.current.noprogress,
			prev:       b.current.prev,
		},
	}
	for k, v := range b.repetitions {
		fork.repetitions[k] = v
	}
	return fork
}

func (b *Board) Position() *Position {
	return b.current.pos
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) NoProgress() int {
	return b.current.noprogress
}

func (b *Board) FullMoves() int {
	return b.fullmoves
}

func (b *Board) Result() Result {
	return b.result
}

// RepetitionCount returns how many times the current position has occurred
// in this game's history.
func (b *Board) RepetitionCount() int {
	return b.repetitions[b.current.hash]
}

// Hash returns the Zobrist hash of the current position, the key used for
// both repetition detection and transposition-table lookups.
func (b *Board) Hash() ZobristHash {
	return b.current.hash
}

// PushMove attempts to make a pseudo-legal move and, if legal, advances the
// board. Returns false (board unchanged) if m leaves the mover in check.
func (b *Board) PushMove(m Move) bool {
	if b.result.Reason == Checkmate || b.result.Reason == Stalemate {
		return false // no legal moves exist from a terminal position
	}

	next, ok := b.current.pos.Move(m)
	if !ok {
		return false
	}

	n := &node{
		pos:        next,
		hash:       b.zt.Move(b.current.hash, b.current.pos, m),
		noprogress: updateNoProgress(b.current.noprogress, m),
		prev:       b.current,
	}

	b.current.next = m
	b.current = n

	b.turn = b.turn.Opponent()
	b.repetitions[b.current.hash]++
	if b.turn == White {
		b.fullmoves++
	}

	switch {
	case b.repetitions[b.current.hash] >= repetitionLimit:
		b.result = Result{Outcome: Draw, Reason: Repetition3}
	case b.current.noprogress >= noprogressPlyLimit:
		b.result = Result{Outcome: Draw, Reason: NoProgress}
	}

	return true
}

// PopMove undoes the last move. Returns false if there is no move to undo.
func (b *Board) PopMove() (Move, bool) {
	if b.current.prev == nil {
		return Move{}, false
	}

	b.turn = b.turn.Opponent()
	b.repetitions[b.current.hash]--
	b.result = Result{Outcome: Undecided} // a legal move existed, so not terminal
	if b.turn == Black {
		b.fullmoves--
	}

	b.current = b.current.prev
	m := b.current.next
	b.current.next = Move{}
	return m, true
}

// PushNull toggles the side to move without changing the position -- the
// "pass" move null-move pruning searches behind. Must be paired with a
// following PopNull, and never interleaved with PushMove/PopMove.
func (b *Board) PushNull() {
	next := b.turn.Opponent()
	b.current.hash ^= b.zt.turn[b.turn] ^ b.zt.turn[next]
	b.turn = next
}

// PopNull reverses PushNull.
func (b *Board) PopNull() {
	prev := b.turn.Opponent()
	b.current.hash ^= b.zt.turn[b.turn] ^ b.zt.turn[prev]
	b.turn = prev
}

// AdjudicateNoLegalMoves settles the result when the side to move has no
// legal moves: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.Position().IsChecked(b.Turn()) {
		result = Result{Outcome: Loss(b.Turn()), Reason: Checkmate}
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate forces the board's result, e.g. from a front-end resignation
// or an external adjudication rule.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// LastMove returns the last move played, if any.
func (b *Board) LastMove() (Move, bool) {
	if b.current.prev != nil {
		return b.current.prev.next, true
	}
	return Move{}, false
}

// HasCastled returns true iff the color has castled at some point in the
// game's history.
func (b *Board) HasCastled(c Color) bool {
	t := b.turn.Opponent()
	cur := b.current.prev

	for cur != nil {
		if t == c && (cur.next.Type == QueenSideCastle || cur.next.Type == KingSideCastle) {
			return true
		}
		t = t.Opponent()
		cur = cur.prev
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, turn=%v, hash=%x (seen %vx) noprogress=%v, fullmoves=%v, result=%v}",
		b.current.pos, b.turn, b.current.hash, b.repetitions[b.current.hash], b.current.noprogress, b.fullmoves, b.result)
}

func updateNoProgress(old int, m Move) int {
	if m.Type != Normal && m.Type != KingSideCastle && m.Type != QueenSideCastle {
		return 0
	}
	return old + 1
}
