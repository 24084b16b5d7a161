// tbbuild builds a chess endgame tablebase by retrograde analysis and
// writes it to output.csv in the current directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/mateline/endgametb/pkg/inventory"
	"github.com/mateline/endgametb/pkg/tablebase"
)

var version = build.NewVersion(0, 1, 0)

const (
	minPieces = 2
	maxPieces = 5
)

// OutOfRangeError reports a CLI argument outside its documented range:
// max_pieces outside [minPieces, maxPieces], or a negative max_depth.
type OutOfRangeError struct {
	Reason string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("out of range: %v", e.Reason)
}

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: tbbuild <max_depth> <max_pieces> [starting_pieces]

tbbuild enumerates checkmate positions for King/Queen/Rook/Bishop/Knight
endgames and runs backward induction up to max_depth plies-to-mate,
writing the result to output.csv.

Arguments:
  max_depth        non-negative integer, plies-to-mate horizon
  max_pieces       integer in [2, 5]
  starting_pieces  optional FEN piece string (e.g. "KQkn"); if given its
                   length must equal max_pieces

Options:
`)
		flag.PrintDefaults()
	}
}

var parallel = flag.Bool("parallel", false, "Expand layers concurrently")

func main() {
	flag.Parse()
	ctx := context.Background()
	logw.Infof(ctx, "tbbuild %v", version)

	opts, err := parseArgs(flag.Args())
	if err != nil {
		flag.Usage()
		logw.Exitf(ctx, "%v", err)
	}

	var l tablebase.Launcher
	h, progress := l.Launch(ctx, opts, lang.Optional[uint]{})
	for p := range progress {
		logw.Infof(ctx, "layer %v: %v positions", p.Depth, p.Size)
	}

	tb, err := h.Halt()
	if err != nil {
		logw.Exitf(ctx, "Build failed: %v", err)
	}

	f, err := os.Create("output.csv")
	if err != nil {
		logw.Exitf(ctx, "Create output.csv failed: %v", err)
	}
	defer f.Close()

	if err := tablebase.Write(f, tb); err != nil {
		logw.Exitf(ctx, "Write output.csv failed: %v", err)
	}
	logw.Infof(ctx, "Wrote %v positions across %v layers to output.csv", tb.Size(), tb.NumLayers())
}

func parseArgs(args []string) (tablebase.Options, error) {
	if len(args) < 2 || len(args) > 3 {
		return tablebase.Options{}, &OutOfRangeError{Reason: fmt.Sprintf("want 2 or 3 positional arguments, got %v", len(args))}
	}

	maxDepth, err := parseNonNegativeInt(args[0], "max_depth")
	if err != nil {
		return tablebase.Options{}, err
	}

	maxPiecesArg, err := parseNonNegativeInt(args[1], "max_pieces")
	if err != nil {
		return tablebase.Options{}, err
	}
	if maxPiecesArg < minPieces || maxPiecesArg > maxPieces {
		return tablebase.Options{}, &OutOfRangeError{Reason: fmt.Sprintf("max_pieces must be in [%v, %v], got %v", minPieces, maxPieces, maxPiecesArg)}
	}

	opts := tablebase.Options{MaxDepth: maxDepth, MaxPieces: maxPiecesArg, Parallel: *parallel}

	if len(args) == 3 {
		if len(args[2]) != maxPiecesArg {
			return tablebase.Options{}, &OutOfRangeError{Reason: fmt.Sprintf("starting_pieces length %v does not match max_pieces %v", len(args[2]), maxPiecesArg)}
		}
		inv, err := inventory.ParseInventory(args[2])
		if err != nil {
			return tablebase.Options{}, err
		}
		if err := inventory.Validate(inv); err != nil {
			return tablebase.Options{}, err
		}
		opts.StartingPieces = &inv
	}
	return opts, nil
}

func parseNonNegativeInt(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &OutOfRangeError{Reason: fmt.Sprintf("%v must be an integer, got %q", name, s)}
	}
	if v < 0 {
		return 0, &OutOfRangeError{Reason: fmt.Sprintf("%v must be non-negative, got %v", name, v)}
	}
	return v, nil
}
