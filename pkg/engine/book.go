package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/dgraph-io/badger/v4"
)

// Book is an opening book: a plain position->move lookup. Engine.Analyze
// consults it before every search and falls through to search on a miss.
type Book interface {
	// Lookup returns a recommended move for the given FEN position, if the
	// book covers it.
	Lookup(ctx context.Context, position string) (board.Move, bool, error)
}

// Line is a sequence of moves in coordinate notation from the initial
// position, e.g. {"e2e4", "e7e5", "g1f3"}.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook never recommends a move.
var NoBook Book = noBook{}

type noBook struct{}

func (noBook) Lookup(ctx context.Context, position string) (board.Move, bool, error) {
	return board.Move{}, false, nil
}

// mapBook is an in-memory opening book, keyed by a cropped FEN (board,
// turn, castling, en passant -- not the move counters, so transpositions
// into the same opening position still hit).
type mapBook struct {
	moves map[string][]board.Move
	rand  *rand.Rand
}

// NewBook builds an in-memory opening book from a set of opening lines.
func NewBook(lines []Line, seed int64) (Book, error) {
	m := map[string]map[board.Move]bool{}
	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			next, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			pos, turn, _, _, err := fen.Decode(key)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			found := false
			for _, candidate := range pos.PseudoLegalMoves(turn, false) {
				if !candidate.Equals(next) {
					continue
				}

				next, ok := pos.Move(candidate)
				if !ok {
					return nil, fmt.Errorf("invalid line %q: move %v not legal", line, candidate)
				}

				k := fenKey(key)
				if m[k] == nil {
					m[k] = map[board.Move]bool{}
				}
				m[k][candidate] = true

				key = fen.Encode(next, turn.Opponent(), 0, 1)
				found = true
				break
			}
			if !found {
				return nil, fmt.Errorf("invalid line %q: move %v not found", line, next)
			}
		}
	}

	moves := map[string][]board.Move{}
	for k, set := range m {
		var list []board.Move
		for move := range set {
			list = append(list, move)
		}
		moves[k] = list
	}
	return &mapBook{moves: moves, rand: rand.New(rand.NewSource(seed))}, nil
}

func (b *mapBook) Lookup(ctx context.Context, position string) (board.Move, bool, error) {
	candidates := b.moves[fenKey(position)]
	if len(candidates) == 0 {
		return board.Move{}, false, nil
	}
	return candidates[b.rand.Intn(len(candidates))], true, nil
}

func fenKey(position string) string {
	parts := strings.Split(position, " ")
	if len(parts) < 4 {
		return position
	}
	return strings.Join(parts[:4], " ")
}

// BadgerBook is a persistent opening book backed by an embedded badger/v4
// key-value store: the same cropped-FEN key scheme as mapBook, with the
// candidate move list JSON-encoded as the value. Useful for large books
// assembled offline (e.g. from a PGN corpus) that shouldn't be rebuilt from
// a []Line on every engine start.
type BadgerBook struct {
	db   *badger.DB
	rand *rand.Rand
}

// OpenBadgerBook opens (or creates) a badger database at dir as an opening
// book.
func OpenBadgerBook(dir string, seed int64) (*BadgerBook, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open book %q: %w", dir, err)
	}
	return &BadgerBook{db: db, rand: rand.New(rand.NewSource(seed))}, nil
}

// Close releases the underlying database handle.
func (b *BadgerBook) Close() error {
	return b.db.Close()
}

// Put records the candidate moves for a position, keyed the same way Lookup
// reads them back. Used by offline book-building tools.
func (b *BadgerBook) Put(position string, moves []board.Move) error {
	data, err := json.Marshal(moves)
	if err != nil {
		return fmt.Errorf("encode book entry: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(fenKey(position)), data)
	})
}

func (b *BadgerBook) Lookup(ctx context.Context, position string) (board.Move, bool, error) {
	var moves []board.Move
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fenKey(position)))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &moves)
		})
	})
	if err != nil {
		return board.Move{}, false, fmt.Errorf("book lookup %q: %w", position, err)
	}
	if len(moves) == 0 {
		return board.Move{}, false, nil
	}
	return moves[b.rand.Intn(len(moves))], true, nil
}
