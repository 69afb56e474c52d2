// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/engine"
	"github.com/aviannet/corvid/pkg/search"
	"github.com/aviannet/corvid/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Driver implements a UCI driver for an engine. It is activated on "uci".
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "option name Hash type spin default 0 min 0 max 4096"
	d.out <- "option name Clear Hash type button"
	d.out <- "option name OwnBook type check default false"
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "debug":
				// "debug on|off" is accepted and ignored: no effect on
				// logging, search or board state.

			case "setoption":
				d.handleSetOption(ctx, args, line)

			case "register":
				// Not a registered/licensed engine; nothing to do.

			case "ucinewgame":
				d.ensureInactive(ctx)
				d.e.ClearHash()
				d.lastPosition = ""

			case "position":
				d.handlePosition(ctx, line, args)

			case "go":
				d.handleGo(ctx, args, line)

			case "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// Pondering (search-ahead-on-opponent's-time) is out of
				// scope; nothing to switch over to.

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handleSetOption(ctx context.Context, args []string, line string) {
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = args[3]
	}

	switch name {
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(uint(n))
		}
	case "Clear":
		if len(args) > 2 && args[2] == "Hash" {
			d.e.ClearHash()
		}
	default:
		logw.Debugf(ctx, "Ignoring setoption: %v", line)
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		// Continuation of game.

		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Split(moves, " ") {
			if arg == "moves" || arg == "" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
				return
			}
		}

		d.lastPosition = line
		return
	}

	// New position.

	position := fen.Initial
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position: %v", line)
		return
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) handleGo(ctx context.Context, args []string, line string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "wtime":
				opt.WTime = time.Millisecond * time.Duration(n)
			case "btime":
				opt.BTime = time.Millisecond * time.Duration(n)
			case "winc":
				opt.WInc = time.Millisecond * time.Duration(n)
			case "binc":
				opt.BInc = time.Millisecond * time.Duration(n)
			case "movestogo":
				opt.MovesToGo = n
			case "movetime":
				opt.MoveTime = time.Millisecond * time.Duration(n)
			}

		case "infinite":
			opt.Infinite = true

		default:
			// searchmoves, ponder, nodes, mate: silently ignored.
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	infinite := opt.Infinite
	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if !pv.Move.IsNull() {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", printMove(pv.Move))
		} else {
			// No PV: position is checkmate or stalemate.
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 time 1242 nodes 2124 nps 34928 pv e2e4"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if plies, ok := pv.Score.MatePlies(); ok {
		moves := (plies + 1) / 2
		if pv.Score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
		if pv.Time > 0 {
			parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
		}
	}
	if !pv.Move.IsNull() {
		parts = append(parts, "pv", printMove(pv.Move))
	}

	return strings.Join(parts, " ")
}

func printMove(m board.Move) string {
	return fmt.Sprintf("%v%v%v", m.From, m.To, printPromoPiece(m.Promotion))
}

func printPromoPiece(p board.Piece) string {
	switch p {
	case board.Queen:
		return "q"
	case board.Rook:
		return "r"
	case board.Knight:
		return "n"
	case board.Bishop:
		return "b"
	default:
		return ""
	}
}
