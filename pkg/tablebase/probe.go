package tablebase

import (
	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/rules"
)

// BestMoves returns the canonical keys reachable from pos that stay on
// the shortest forced-mate path: pos's own depth d looked up in tb, then
// every legal move whose resulting position's key lies in layer d-1.
// Returns nil if pos is not in tb, or is itself a mate (d == 0) -- there
// is no move to make.
func BestMoves(tb *Tablebase, pos *board.Position) []string {
	d, ok := tb.Depth(codec.Encode(pos))
	if !ok || d == 0 {
		return nil
	}

	var ret []string
	for _, m := range rules.LegalMoves(pos) {
		next := pos.Move(m)
		key := codec.Encode(next)
		if _, ok := tb.Layers[d-1][key]; ok {
			ret = append(ret, key)
		}
	}
	return ret
}
