// Package codec converts between board.Position and its canonical text
// key: an 8-rank FEN-shaped grid plus a side-to-move marker. Two legal
// positions compare equal under the data model in pkg/board iff they
// produce the same key.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mateline/endgametb/pkg/board"
)

// MalformedPositionError reports a key that does not decode to a
// position: wrong square count, a missing side-to-move marker, or an
// invalid piece letter.
type MalformedPositionError struct {
	Key    string
	Reason string
}

func (e *MalformedPositionError) Error() string {
	return fmt.Sprintf("codec: malformed position %q: %v", e.Key, e.Reason)
}

// Encode produces the canonical key for pos: ranks from Black's back
// rank (8) to White's back rank (1), files a..h within each rank, runs
// of empty squares coalesced to a single digit, ranks separated by '/',
// followed by a space and the side-to-move character. There are no
// castling/en-passant/clock fields in board.Position (see pkg/board), so
// none are placeholder-encoded here.
func Encode(pos *board.Position) string {
	var sb strings.Builder

	for rank := board.Rank8; ; rank-- {
		empty := 0
		for x := 0; x < int(board.NumFiles); x++ {
			file := board.File(int(board.NumFiles) - 1 - x)
			sq := board.NewSquare(file, rank)

			c, p, ok := pos.Square(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pieceLetter(c, p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank == board.Rank1 {
			break
		}
		sb.WriteRune('/')
	}

	sb.WriteRune(' ')
	sb.WriteString(pos.Turn().String())
	return sb.String()
}

// Decode parses a canonical key back into a position. Fails with
// *MalformedPositionError if the grid does not describe exactly 64
// squares or the side-to-move marker is missing or invalid.
func Decode(key string) (*board.Position, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return nil, &MalformedPositionError{Key: key, Reason: "expected '<grid> <side>'"}
	}

	turn, err := parseSide(fields[1])
	if err != nil {
		return nil, &MalformedPositionError{Key: key, Reason: err.Error()}
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != int(board.NumRanks) {
		return nil, &MalformedPositionError{Key: key, Reason: fmt.Sprintf("expected %v ranks, got %v", board.NumRanks, len(ranks))}
	}

	var placements []board.Placement
	for i, row := range ranks {
		rank := board.Rank8 - board.Rank(i)

		x := 0
		for _, r := range row {
			if unicode.IsDigit(r) {
				n, _ := strconv.Atoi(string(r))
				x += n
				continue
			}

			piece, ok := board.ParsePiece(r)
			if !ok {
				return nil, &MalformedPositionError{Key: key, Reason: fmt.Sprintf("invalid piece letter %q", r)}
			}
			if x >= int(board.NumFiles) {
				return nil, &MalformedPositionError{Key: key, Reason: fmt.Sprintf("rank %v overflows 8 files", rank)}
			}

			color := board.Black
			if unicode.IsUpper(r) {
				color = board.White
			}
			file := board.File(int(board.NumFiles) - 1 - x)
			placements = append(placements, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			x++
		}
		if x != int(board.NumFiles) {
			return nil, &MalformedPositionError{Key: key, Reason: fmt.Sprintf("rank %v has %v files, want 8", rank, x)}
		}
	}

	pos, err := board.NewPosition(placements, turn)
	if err != nil {
		return nil, &MalformedPositionError{Key: key, Reason: err.Error()}
	}
	return pos, nil
}

// WithSideToMove returns a copy of pos with only the side to move changed.
func WithSideToMove(pos *board.Position, side board.Color) *board.Position {
	return pos.WithTurn(side)
}

func parseSide(s string) (board.Color, error) {
	switch s {
	case "w":
		return board.White, nil
	case "b":
		return board.Black, nil
	default:
		return 0, fmt.Errorf("invalid side-to-move marker %q", s)
	}
}

func pieceLetter(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return p.String()
}
