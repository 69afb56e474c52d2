// Package search implements iterative-deepening alpha-beta search over
// pkg/board positions, guided by a pluggable pkg/eval.Evaluator.
package search

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/atomic"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/eval"
)

const nodeCheckMask = 0x3FF // check the deadline every 1024 nodes

// PV is the result of one completed iterative-deepening iteration: the best
// root move found, its score, and bookkeeping for the protocol's info line.
type PV struct {
	Depth int
	Move  board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, p.Move)
}

// Options configures a root search.
type Options struct {
	// DepthLimit bounds iterative deepening. 0 means eval.MaxPly.
	DepthLimit int
	// Budget is the wall-clock time allotted to the whole root search,
	// derived by searchctl.Budget from the protocol's "go" parameters.
	Budget time.Duration
}

// Searcher runs searches against a shared transposition table. Not safe for
// concurrent use: only one search runs at a time. The node counter and
// abort flag are atomics, so another goroutine (Engine.Halt) can signal an
// abort without additional synchronization.
type Searcher struct {
	Eval eval.Evaluator
	TT   *TranspositionTable

	killers killerTable
	history historyTable

	nodes    atomic.Uint64
	abort    atomic.Bool
	deadline time.Time
	rand     *rand.Rand
}

// NewSearcher builds a Searcher over e, backed by tt. seed controls the
// tie-break random move selection at the end of each completed iteration.
func NewSearcher(e eval.Evaluator, tt *TranspositionTable, seed int64) *Searcher {
	return &Searcher{Eval: e, TT: tt, rand: rand.New(rand.NewSource(seed))}
}

// reset clears the per-search killer/history tables and node counter, and
// arms the deadline and abort flag for a new root search.
func (s *Searcher) reset(budget time.Duration) {
	s.killers = killerTable{}
	s.history = historyTable{}
	s.nodes.Store(0)
	s.abort.Store(false)
	s.deadline = time.Now().Add(budget)
}

// aborted reports the abort flag; checked on every recursive entry.
func (s *Searcher) aborted() bool {
	return s.abort.Load()
}

// Abort signals the in-progress search to stop at its next node-count check,
// e.g. in response to a UCI "stop" command. Safe to call from another
// goroutine; the search itself remains single-threaded.
func (s *Searcher) Abort() {
	s.abort.Store(true)
}

// Nodes reports the number of nodes visited so far in the current (or most
// recently completed) search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// tick counts one visited node and, every 1024 nodes, checks the wall clock
// against the deadline -- amortizing the cost of reading the clock. Returns
// true iff the search should abort.
func (s *Searcher) tick() bool {
	n := s.nodes.Add(1)
	if n&nodeCheckMask == 0 && time.Now().After(s.deadline) {
		s.abort.Store(true)
	}
	return s.abort.Load()
}
