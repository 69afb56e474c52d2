// Package engine aggregates a board, a pluggable evaluator and the search
// core into the single stateful object a protocol front-end drives.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/aviannet/corvid/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options are runtime-configurable engine defaults.
type Options struct {
	// Depth is the default search depth limit, overridden by a "go depth n"
	// command if given. Zero means no limit (bounded by eval.MaxPly).
	Depth uint
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
	// Noise adds millipawn randomness to leaf evaluations.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// Engine encapsulates game-playing logic: a board, the search core and an
// opening book. A single search runs at a time; Analyze launches it on its
// own goroutine so a front-end can continue answering protocol commands
// (notably "stop") while it runs, but the search itself is the single-
// threaded, cooperative loop pkg/search implements.
type Engine struct {
	name, author string

	eval eval.Evaluator
	book Book
	zt   *board.ZobristTable
	seed int64

	mu       sync.Mutex
	opts     Options
	b        *board.Board
	tt       *search.TranspositionTable
	searcher *search.Searcher
	active   *activeSearch
}

type activeSearch struct {
	done chan search.PV
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets the engine's initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to use the given Zobrist seed instead of
// the default seed of zero. Useful for reproducible tests.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithBook configures the engine's opening book. Defaults to NoBook.
func WithBook(book Book) Option {
	return func(e *Engine) { e.book = book }
}

// New creates an engine for the given evaluator, starting from the initial
// position.
func New(ctx context.Context, name, author string, ev eval.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		eval:   ev,
		book:   NoBook,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	e.tt = newTranspositionTable(sizeMB)
	e.searcher.TT = e.tt
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
	e.searcher.Eval = newEvaluator(e.eval, millipawns, e.seed)
}

// ClearHash empties the transposition table in place, e.g. for UCI's
// "setoption name Clear Hash".
func (e *Engine) ClearHash() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

// Board returns a forked copy of the current board, safe for the caller to
// inspect or search against without racing the engine's own mutations.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Fork()
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
}

// Reset resets the engine to the position described by the given FEN string.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	e.haltSearchIfActiveLocked()

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", position, err)
	}
	e.b = board.NewBoard(e.zt, pos, turn, noprogress, fullmoves)

	e.tt = newTranspositionTable(e.opts.Hash)
	e.searcher = search.NewSearcher(newEvaluator(e.eval, e.opts.Noise, e.seed), e.tt, e.seed)

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

func newTranspositionTable(sizeMB uint) *search.TranspositionTable {
	if sizeMB == 0 {
		return search.NewTranspositionTable(0)
	}
	// An entry is a handful of machine words; approximate ~32 bytes to turn
	// a megabyte budget into an entry-count capacity.
	const bytesPerEntry = 32
	return search.NewTranspositionTable(int(sizeMB) << 20 / bytesPerEntry)
}

func newEvaluator(base eval.Evaluator, noise uint, seed int64) eval.Evaluator {
	if noise == 0 {
		return base
	}
	return eval.NewRandom(base, int(noise)/10, seed) // millipawns to centipawns
}

// Move applies the given move, usually an opponent's, in coordinate
// notation (e.g. "e2e4", "a7a8q").
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltSearchIfActiveLocked()

	for _, m := range e.b.Position().PseudoLegalMoves(e.b.Turn(), false) {
		if !candidate.Equals(m) {
			continue
		}
		if !e.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}
		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked()

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}
	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze probes the opening book first; on a hit it reports the book move
// as a single synthetic PV over the returned channel and returns immediately.
// Otherwise it launches iterative deepening on its own goroutine and streams
// each completed iteration, so the caller can keep processing protocol
// commands (including Halt) while the search runs.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	depthLimit, budget := searchctl.Resolve(opt, e.opts.Depth, e.b.Turn() == board.White)
	logw.Infof(ctx, "Analyze %v, depth=%v, budget=%v", e.b, depthLimit, budget)

	position := fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
	if m, ok, err := e.book.Lookup(ctx, position); err != nil {
		logw.Errorf(ctx, "Book lookup failed: %v", err)
	} else if ok {
		legal := false
		for _, c := range board.GenerateLegal(e.b.Position(), e.b.Turn(), false) {
			if c.Equals(m) {
				m, legal = c, true
				break
			}
		}
		if legal {
			logw.Infof(ctx, "Book move: %v", m)

			out := make(chan search.PV, 1)
			out <- search.PV{Move: m}
			close(out)
			return out, nil
		}
		logw.Infof(ctx, "Book move %v is not legal here; searching instead", m)
	}

	b := e.b.Fork()
	s := e.searcher
	out := make(chan search.PV, 64)
	done := make(chan search.PV, 1)

	e.active = &activeSearch{done: done}

	go func() {
		defer close(out)
		pv := s.Search(ctx, b, search.Options{DepthLimit: depthLimit, Budget: budget}, func(pv search.PV) {
			out <- pv
		})
		done <- pv
	}()
	return out, nil
}

// Halt stops the active search, if any, and returns its final PV.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()

	if active == nil {
		return search.PV{}, fmt.Errorf("no active search")
	}

	e.searcher.Abort()
	pv := <-active.done

	e.mu.Lock()
	e.active = nil
	e.mu.Unlock()

	logw.Infof(ctx, "Search halted: %v", pv)
	return pv, nil
}

// haltSearchIfActiveLocked aborts and drains an active search. Caller must
// hold e.mu.
func (e *Engine) haltSearchIfActiveLocked() {
	if e.active == nil {
		return
	}
	e.searcher.Abort()
	<-e.active.done
	e.active = nil
}
