// corvid is a UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aviannet/corvid/pkg/engine"
	"github.com/aviannet/corvid/pkg/engine/console"
	"github.com/aviannet/corvid/pkg/engine/uci"
	"github.com/aviannet/corvid/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	noise = flag.Int("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
	hash  = flag.Uint("hash", 64, "Transposition table size in MB (zero disables it)")
	book  = flag.String("book", "", "Opening book: a badger database directory, or empty to disable")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: corvid [options]

CORVID is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := []engine.Option{
		engine.WithOptions(engine.Options{Hash: *hash, Noise: uint(*noise)}),
		engine.WithZobrist(time.Now().UnixNano()),
	}
	if *book != "" {
		b, err := engine.OpenBadgerBook(*book, time.Now().UnixNano())
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %v: %v", *book, err)
		}
		opts = append(opts, engine.WithBook(b))
	}

	e := engine.New(ctx, "corvid", "aviannet", eval.Standard{}, opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
