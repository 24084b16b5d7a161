// tbprobe reads a tablebase built by tbbuild and answers optimal-move
// queries against it, one canonical key per line on standard input.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/engine"
	"github.com/mateline/endgametb/pkg/tablebase"
)

var version = build.NewVersion(0, 1, 0)

var path = flag.String("tablebase", "output.csv", "Tablebase file written by tbbuild")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: tbprobe [options]

tbprobe reads a tablebase and, for each canonical key given on standard
input, prints the optimal successor keys along a shortest mating line,
or a message stating no forced win is known.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()
	logw.Infof(ctx, "tbprobe %v", version)

	f, err := os.Open(*path)
	if err != nil {
		logw.Exitf(ctx, "Open %v failed: %v", *path, err)
	}
	defer f.Close()

	tb, err := tablebase.Read(f)
	if err != nil {
		logw.Exitf(ctx, "Read %v failed: %v", *path, err)
	}
	logw.Infof(ctx, "Loaded %v positions across %v layers from %v", tb.Size(), tb.NumLayers(), *path)

	in := engine.ReadStdinLines(ctx)
	out := make(chan string)
	go process(ctx, tb, in, out)
	engine.WriteStdoutLines(ctx, out)
}

func process(ctx context.Context, tb *tablebase.Tablebase, in <-chan string, out chan<- string) {
	defer close(out)

	for line := range in {
		key := strings.TrimSpace(line)
		if key == "" {
			continue
		}

		pos, err := codec.Decode(key)
		if err != nil {
			out <- fmt.Sprintf("error: %v", err)
			continue
		}

		moves := tablebase.BestMoves(tb, pos)
		if len(moves) == 0 {
			if _, ok := tb.Depth(key); !ok {
				out <- "no forced win known (position not in tablebase)"
			} else {
				out <- "no forced win (already mate)"
			}
			continue
		}
		out <- strings.Join(moves, " | ")
	}
}
