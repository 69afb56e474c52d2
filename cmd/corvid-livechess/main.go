// corvid-livechess is an adaptor for using a DGT EBoard via LiveChess as a UCI
// engine. The adaptor lets chess GUIs (e.g. CuteChess) drive a physical board
// as if it were an engine: "go" waits for a matching move on the board
// instead of running a search.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/aviannet/corvid/pkg/board"
	"github.com/aviannet/corvid/pkg/board/fen"
	"github.com/aviannet/corvid/pkg/engine"
	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Watch failed to autodetect board: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	a := newAdaptor(ctx, client, events)

	driver := newDriver(ctx, a)
	driver.run(ctx)
}

// driver is a minimal UCI loop: position/go/bestmove only, since the board
// itself is the only move source -- no depth, time control or info lines to
// report.
type driver struct {
	a  *adaptor
	zt *board.ZobristTable
	b  *board.Board
}

func newDriver(ctx context.Context, a *adaptor) *driver {
	pos, turn, np, fm, _ := fen.Decode(fen.Initial)
	zt := board.NewZobristTable(0)
	return &driver{a: a, zt: zt, b: board.NewBoard(zt, pos, turn, np, fm)}
}

func (d *driver) run(ctx context.Context) {
	in := engine.ReadStdinLines(ctx)

	for line := range in {
		parts := strings.Split(strings.TrimSpace(line), " ")
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "uci":
			fmt.Println("id name corvid-livechess")
			fmt.Println("id author aviannet")
			fmt.Println("uciok")

		case "isready":
			fmt.Println("readyok")

		case "ucinewgame":
			pos, turn, np, fm, _ := fen.Decode(fen.Initial)
			d.b = board.NewBoard(d.zt, pos, turn, np, fm)

		case "position":
			d.handlePosition(ctx, line, parts[1:])

		case "go":
			m, err := d.a.Await(ctx, d.b)
			if err != nil {
				logw.Errorf(ctx, "Await move failed: %v", err)
				fmt.Println("bestmove 0000")
				continue
			}
			if m.IsNull() {
				fmt.Println("bestmove 0000")
				continue
			}
			fmt.Printf("bestmove %v\n", m)

		case "quit":
			return
		}
	}
}

func (d *driver) handlePosition(ctx context.Context, line string, args []string) {
	position := fen.Initial
	i := 0
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
		i = 6
	}

	pos, turn, np, fm, err := fen.Decode(position)
	if err != nil {
		logw.Errorf(ctx, "Invalid position: %v", line)
		return
	}
	d.b = board.NewBoard(d.zt, pos, turn, np, fm)

	for ; i < len(args); i++ {
		if args[i] == "moves" {
			continue
		}
		move, err := board.ParseMove(args[i])
		if err != nil {
			continue
		}
		for _, m := range d.b.Position().PseudoLegalMoves(d.b.Turn(), false) {
			if move.Equals(m) {
				d.b.PushMove(m)
				break
			}
		}
	}
}

// adaptor waits for the physical board to report one of the legal moves in
// the current position.
type adaptor struct {
	client livechess.FeedClient

	last  atomic.Pointer[livechess.EBoardEventResponse]
	pulse *iox.Pulse
}

func newAdaptor(ctx context.Context, client livechess.FeedClient, events <-chan livechess.EBoardEventResponse) *adaptor {
	a := &adaptor{
		client: client,
		pulse:  iox.NewPulse(),
	}
	go a.process(ctx, events)
	return a
}

// Await blocks until the board reports a position matching one of b's legal
// moves, or ctx is done.
func (a *adaptor) Await(ctx context.Context, b *board.Board) (board.Move, error) {
	candidates := map[string]board.Move{}
	for _, m := range board.GenerateLegal(b.Position(), b.Turn(), false) {
		fork := b.Fork()
		fork.PushMove(m)
		key := strings.Split(fen.Encode(fork.Position(), fork.Turn(), 0, 0), " ")[0]
		candidates[key] = m
	}
	if len(candidates) == 0 {
		return board.NullMove, nil
	}

	for {
		if last := a.last.Load(); last != nil {
			if m, ok := candidates[last.Board]; ok {
				return m, nil
			}
		}

		select {
		case <-a.pulse.Chan():
			// board changed: try again
		case <-ctx.Done():
			return board.NullMove, ctx.Err()
		}
	}
}

func (a *adaptor) process(ctx context.Context, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if len(event.San) > 0 {
				a.last.Store(&event)
				a.pulse.Emit()
			}

		case <-ctx.Done():
			return
		}
	}
}

