package tablebase

import (
	"context"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/inventory"
	"github.com/mateline/endgametb/pkg/mate"
	"github.com/mateline/endgametb/pkg/retro"
	"github.com/mateline/endgametb/pkg/rules"
)

// Build runs the backward-induction fixed point to opts.MaxDepth:
//
//	L0    = checkmates for every inventory the seed covers
//	L_d   (d odd)  = predecessors of L_{d-1} not already in an earlier
//	                 layer -- one legal move witnesses the forced loss
//	L_d   (d even) = predecessors of L_{d-1} all of whose legal
//	                 successors already lie in an earlier layer
//
// side_just_moved for a predecessor computation is always
// p.Turn().Opponent() -- the side whose move produced p -- derived
// per-position rather than from d's parity, since deriving it from d
// directly (as a literal reading of "side_just_moved = black if d is
// odd" would suggest) disagrees with the per-position definition
// whenever the two are compared on L0 itself. See DESIGN.md.
func Build(ctx context.Context, opts Options) (*Tablebase, error) {
	return build(ctx, opts, nil)
}

// Progress reports one completed layer during an incremental build.
type Progress struct {
	Depth int
	Size  int
}

// build is Build's core, additionally reporting one Progress per
// completed layer when onLayer is non-nil. control.go drives this
// directly so Halt can return whatever layers finished before ctx was
// cancelled; Build itself just discards the reports.
func build(ctx context.Context, opts Options, onLayer func(Progress)) (*Tablebase, error) {
	seed, err := seedInventories(opts)
	if err != nil {
		return nil, err
	}

	tb := newTablebase()
	universe := map[string]struct{}{} // U: every key admitted so far, any layer

	l0 := map[string]struct{}{}
	for _, inv := range seed {
		mates, err := mate.CheckmatesFor(ctx, inv)
		if err != nil {
			return nil, err
		}
		for key := range mates {
			l0[key] = struct{}{}
		}
	}
	tb.appendLayer(l0)
	for key := range l0 {
		universe[key] = struct{}{}
	}
	if onLayer != nil {
		onLayer(Progress{Depth: 0, Size: len(l0)})
	}

	prev := l0
	for d := 1; d <= opts.MaxDepth && len(prev) > 0; d++ {
		if contextx.IsCancelled(ctx) {
			return tb, ctx.Err()
		}

		cand, err := expandLayer(prev, universe, opts.MaxPieces, opts.Parallel)
		if err != nil {
			return tb, err
		}

		layer := map[string]struct{}{}
		if d%2 == 1 {
			for key := range cand {
				layer[key] = struct{}{}
			}
		} else {
			for key, pos := range cand {
				if isForcedWin(pos, universe) {
					layer[key] = struct{}{}
				}
			}
		}

		tb.appendLayer(layer)
		for key := range layer {
			universe[key] = struct{}{}
		}
		if onLayer != nil {
			onLayer(Progress{Depth: d, Size: len(layer)})
		}
		prev = layer
	}

	return tb, nil
}

// seedInventories resolves the set of inventories L0 is built over:
// subsets of opts.StartingPieces when given (so a smaller inventory's
// tablebase is always available for uncaptures to fall back into), or
// every inventory up to opts.MaxPieces otherwise.
func seedInventories(opts Options) ([]inventory.Inventory, error) {
	if opts.StartingPieces != nil {
		if err := inventory.Validate(*opts.StartingPieces); err != nil {
			return nil, err
		}
		return inventory.SubsetsOf(*opts.StartingPieces), nil
	}
	return inventory.AllInventories(opts.MaxPieces), nil
}

// expandLayer decodes every key in prev back to a Position, computes its
// retrograde predecessors, and unions the results keyed by canonical
// key, excluding anything already in universe.
func expandLayer(prev map[string]struct{}, universe map[string]struct{}, maxPieces int, parallel bool) (map[string]*board.Position, error) {
	if parallel {
		return expandLayerParallel(prev, universe, maxPieces)
	}

	cand := map[string]*board.Position{}
	for key := range prev {
		p, err := codec.Decode(key)
		if err != nil {
			return nil, &rules.RulesEngineError{Reason: "layer held an undecodable key: " + err.Error()}
		}
		for predKey, predPos := range retro.Predecessors(p, p.Turn().Opponent(), maxPieces) {
			if _, known := universe[predKey]; known {
				continue
			}
			cand[predKey] = predPos
		}
	}
	return cand, nil
}

// isForcedWin reports whether every legal move from pos (the side to
// move for an even layer) lands in universe. A position with no legal
// move is excluded unless it is itself in check: stalemates must never
// be counted as a forced win, even though the successor set is
// vacuously "all in universe".
func isForcedWin(pos *board.Position, universe map[string]struct{}) bool {
	moves := rules.LegalMoves(pos)
	if len(moves) == 0 {
		return rules.InCheck(pos)
	}
	for _, m := range moves {
		next := pos.Move(m)
		if _, ok := universe[codec.Encode(next)]; !ok {
			return false
		}
	}
	return true
}
