// Package retro computes retrograde predecessors: the positions from
// which one legal move reaches a given position. It reuses pkg/board's
// attack tables directly, since non-pawn, non-castling moves are their
// own inverse -- the squares a piece could have arrived FROM are the
// same attack pattern as the squares it could move TO.
package retro

import (
	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
)

// uncapturable is every piece type an uncapture may restore: non-king,
// non-pawn. Pawns are unsupported: they are directional and
// promotion-capable, so an "uncapture" would need to know the pawn's
// origin square and whether it had promoted, which the board state
// alone cannot tell.
var uncapturable = []board.Piece{board.Bishop, board.Knight, board.Rook, board.Queen}

// Predecessors returns every legal position from which one move by
// sideThatJustMoved reaches pos, keyed by canonical key. sideThatJustMoved
// is the side NOT to move in pos (the side whose move produced it).
// maxPieces bounds uncaptures: a captured piece may only be restored if
// doing so keeps the total piece count at or below maxPieces.
func Predecessors(pos *board.Position, sideThatJustMoved board.Color, maxPieces int) map[string]*board.Position {
	ret := map[string]*board.Position{}
	occ := pos.Occupancy()

	for _, mover := range pos.Placements() {
		if mover.Color != sideThatJustMoved {
			continue
		}

		origins := board.Attackboard(occ, mover.Square, mover.Piece)
		for _, s := range origins.Squares() {
			if !pos.IsEmpty(s) {
				continue // must have been empty for q to have moved there from
			}

			base := unmovedPlacements(pos, mover, s)

			if pred, ok := tryBuild(base, sideThatJustMoved); ok {
				ret[codec.Encode(pred)] = pred
			}

			if len(pos.Placements())+1 > maxPieces {
				continue
			}
			for _, captured := range uncapturable {
				withCapture := append(append([]board.Placement{}, base...), board.Placement{
					Square: mover.Square,
					Color:  pos.Turn(),
					Piece:  captured,
				})
				if pred, ok := tryBuild(withCapture, sideThatJustMoved); ok {
					ret[codec.Encode(pred)] = pred
				}
			}
		}
	}

	return ret
}

// unmovedPlacements returns pos's placements with mover relocated from
// its current square back to origin.
func unmovedPlacements(pos *board.Position, mover board.Placement, origin board.Square) []board.Placement {
	var ret []board.Placement
	for _, pl := range pos.Placements() {
		if pl.Square == mover.Square {
			ret = append(ret, board.Placement{Square: origin, Color: mover.Color, Piece: mover.Piece})
			continue
		}
		ret = append(ret, pl)
	}
	return ret
}

// tryBuild constructs a predecessor and accepts it iff structurally
// valid and legal (the side not to move in the predecessor -- i.e. the
// side that is to move in pos -- is not in check).
func tryBuild(placements []board.Placement, turn board.Color) (*board.Position, bool) {
	pred, err := board.NewPosition(placements, turn)
	if err != nil {
		return nil, false
	}
	if !pred.IsLegal() {
		return nil, false
	}
	return pred, true
}
