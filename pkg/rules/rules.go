// Package rules is the internal realization of the "chess rules engine"
// collaborator: legal move generation, check/checkmate/stalemate
// detection and move application for King/Queen/Rook/Bishop/Knight-only
// positions. It is built directly on pkg/board's attack tables rather
// than delegated to an external process, since this repository has no
// separate engine to call out to.
package rules

import (
	"fmt"

	"github.com/mateline/endgametb/pkg/board"
)

// RulesEngineError reports an invariant violation on a position the
// caller constructed -- treated as a bug, never an expected outcome of
// enumeration or retrograde expansion.
type RulesEngineError struct {
	Reason string
}

func (e *RulesEngineError) Error() string {
	return fmt.Sprintf("rules: %v", e.Reason)
}

// PseudoLegalMoves returns every geometrically valid move for the side
// to move, including moves that leave that side's own king in check.
// Captures of a King are excluded: a king is never a legal capture target (if one is attacked, the position is illegal,
// which callers must have already rejected via board.Position.IsLegal).
func PseudoLegalMoves(pos *board.Position) []board.Move {
	turn := pos.Turn()
	var moves []board.Move

	for piece := board.ZeroPiece; piece < board.NumPieces; piece++ {
		for _, from := range pieceSquares(pos, turn, piece) {
			targets := board.Attackboard(pos.Occupancy(), from, piece)
			for _, to := range targets.Squares() {
				c, p, occupied := pos.Square(to)
				switch {
				case !occupied:
					moves = append(moves, board.Move{Type: board.Normal, Piece: piece, From: from, To: to})
				case c != turn && p != board.King:
					moves = append(moves, board.Move{Type: board.Capture, Piece: piece, From: from, To: to, Captured: p})
				}
			}
		}
	}
	return moves
}

// LegalMoves returns the subset of PseudoLegalMoves that do not leave
// the moving side's own king in check.
func LegalMoves(pos *board.Position) []board.Move {
	var legal []board.Move
	for _, m := range PseudoLegalMoves(pos) {
		next := pos.Move(m)
		if !next.IsChecked(pos.Turn()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// Apply plays m on pos and returns the resulting position. Fails with
// *RulesEngineError if m does not describe the moving side's own piece
// at its From square -- a contract violation, not an expected-failure
// legality rejection (those are handled by simply omitting a move from
// LegalMoves).
func Apply(pos *board.Position, m board.Move) (*board.Position, error) {
	c, p, ok := pos.Square(m.From)
	if !ok || c != pos.Turn() || p != m.Piece {
		return nil, &RulesEngineError{Reason: fmt.Sprintf("move %v does not match occupant at %v", m, m.From)}
	}
	return pos.Move(m), nil
}

// InCheck returns true iff the side to move is in check.
func InCheck(pos *board.Position) bool {
	return pos.IsChecked(pos.Turn())
}

// IsCheckmate returns true iff the side to move is in check and has no
// legal move.
func IsCheckmate(pos *board.Position) bool {
	return InCheck(pos) && len(LegalMoves(pos)) == 0
}

// IsStalemate returns true iff the side to move is NOT in check but has
// no legal move -- a draw, and must never be treated as a forced loss.
func IsStalemate(pos *board.Position) bool {
	return !InCheck(pos) && len(LegalMoves(pos)) == 0
}

func pieceSquares(pos *board.Position, c board.Color, p board.Piece) []board.Square {
	var ret []board.Square
	for _, pl := range pos.Placements() {
		if pl.Color == c && pl.Piece == p {
			ret = append(ret, pl.Square)
		}
	}
	return ret
}
