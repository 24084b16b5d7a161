// Package mate enumerates checkmate positions for a given piece
// inventory: the leaf set every tablebase build starts from.
package mate

import (
	"context"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/inventory"
	"github.com/mateline/endgametb/pkg/rules"
)

// cancellationCheckInterval bounds how often a long brute-force
// enumeration polls ctx, so cancellation latency stays small without
// making every one of billions of candidate assignments pay the cost of
// a context check.
const cancellationCheckInterval = 1 << 16

// CheckmatesFor enumerates every assignment of squares to inv's tokens
// (64^n candidates, n = len(inv)), discards any that place two tokens on
// the same square, and keeps the ones that are legal (White not in
// check) and checkmate for Black. Returns the canonical keys of the
// survivors.
func CheckmatesFor(ctx context.Context, inv inventory.Inventory) (map[string]struct{}, error) {
	if err := inventory.Validate(inv); err != nil {
		return nil, err
	}

	ret := map[string]struct{}{}
	assignment := make([]board.Square, len(inv))
	var used board.Bitboard
	var count int

	var assign func(i int) error
	assign = func(i int) error {
		if i == len(inv) {
			count++
			if count%cancellationCheckInterval == 0 && contextx.IsCancelled(ctx) {
				return ctx.Err()
			}
			considerAssignment(inv, assignment, ret)
			return nil
		}

		for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
			if used.IsSet(sq) {
				continue // skip-ahead: never generate a duplicate-square assignment
			}
			used ^= board.BitMask(sq)
			assignment[i] = sq
			if err := assign(i + 1); err != nil {
				return err
			}
			used ^= board.BitMask(sq)
		}
		return nil
	}

	if err := assign(0); err != nil {
		return nil, err
	}
	return ret, nil
}

func considerAssignment(inv inventory.Inventory, assignment []board.Square, out map[string]struct{}) {
	placements := make([]board.Placement, len(inv))
	for i, tok := range inv {
		placements[i] = board.Placement{Square: assignment[i], Color: tok.Color, Piece: tok.Piece}
	}

	pos, err := board.NewPosition(placements, board.Black)
	if err != nil {
		return // structurally impossible (duplicate handled above, so this is king adjacency etc.)
	}
	if !pos.IsLegal() {
		return // White would be left in check
	}
	if !rules.IsCheckmate(pos) {
		return
	}

	out[codec.Encode(pos)] = struct{}{}
}
