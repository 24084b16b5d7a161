// Package inventory enumerates piece inventories: the multisets of
// piece-type+side tokens that pkg/mate builds checkmate positions for.
package inventory

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/mateline/endgametb/pkg/board"
)

// Token is a piece type tagged with a side.
type Token struct {
	Piece board.Piece
	Color board.Color
}

func (t Token) String() string {
	if t.Color == board.White {
		return strings.ToUpper(t.Piece.String())
	}
	return t.Piece.String()
}

// less imposes the total order inventories are deduplicated under:
// material value first (grounded on board.Piece.Value), then piece kind,
// then White before Black. Combinations only ever extend an inventory
// with a token >= the last one appended, which is what keeps
// AllInventories free of permutation duplicates.
func less(a, b Token) bool {
	if a.Piece.Value() != b.Piece.Value() {
		return a.Piece.Value() < b.Piece.Value()
	}
	if a.Piece != b.Piece {
		return a.Piece < b.Piece
	}
	return a.Color == board.White && b.Color == board.Black
}

// Inventory is an ordered multiset of tokens, always containing both kings.
type Inventory []Token

func (inv Inventory) String() string {
	var parts []string
	for _, t := range inv {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, "")
}

// InvalidInventoryError reports an inventory missing a mandatory king or
// carrying an out-of-alphabet token (pawns, most commonly).
type InvalidInventoryError struct {
	Reason string
}

func (e *InvalidInventoryError) Error() string {
	return fmt.Sprintf("inventory: %v", e.Reason)
}

// ParseInventory reads canonical FEN piece notation (e.g. "KQkn",
// uppercase = White) into an Inventory. Every rune must name a valid
// piece; the result still needs Validate to confirm exactly one king
// per side.
func ParseInventory(s string) (Inventory, error) {
	var ret Inventory
	for _, r := range s {
		p, ok := board.ParsePiece(r)
		if !ok {
			return nil, &InvalidInventoryError{Reason: fmt.Sprintf("invalid piece token %q", r)}
		}
		color := board.Black
		if unicode.IsUpper(r) {
			color = board.White
		}
		ret = append(ret, Token{Piece: p, Color: color})
	}
	return ret, nil
}

// alphabet is every non-king token, in the order combinations are drawn
// from. Pawns are excluded by construction (see pkg/board.Piece).
var alphabet = func() []Token {
	var tokens []Token
	for p := board.ZeroPiece; p < board.King; p++ {
		tokens = append(tokens, Token{Piece: p, Color: board.White}, Token{Piece: p, Color: board.Black})
	}
	sort.Slice(tokens, func(i, j int) bool { return less(tokens[i], tokens[j]) })
	return tokens
}()

var kings = Inventory{{board.King, board.White}, {board.King, board.Black}}

// AllInventories yields every inventory of 2..maxPieces tokens (both
// kings plus 0..maxPieces-2 additional tokens), deduplicated as
// combinations rather than permutations, in a deterministic order.
func AllInventories(maxPieces int) []Inventory {
	var ret []Inventory
	for extra := 0; extra <= maxPieces-2; extra++ {
		for _, combo := range combinations(alphabet, extra) {
			ret = append(ret, append(append(Inventory{}, kings...), combo...))
		}
	}
	return ret
}

// SubsetsOf yields every subset of inv that still contains both kings:
// the power set of inv's non-king tokens, unioned with {kK} each time.
// Equal-valued subsets (e.g. choosing either of two identical rooks) are
// deduplicated to their one String() representation.
func SubsetsOf(inv Inventory) []Inventory {
	var extra []Token
	for _, t := range inv {
		if t.Piece != board.King {
			extra = append(extra, t)
		}
	}

	seen := map[string]bool{}
	var ret []Inventory
	for mask := 0; mask < (1 << len(extra)); mask++ {
		var subset []Token
		for i, t := range extra {
			if mask&(1<<i) != 0 {
				subset = append(subset, t)
			}
		}
		inv := append(append(Inventory{}, kings...), subset...)
		key := inv.String()
		if !seen[key] {
			seen[key] = true
			ret = append(ret, inv)
		}
	}
	return ret
}

// Validate checks that inv names only kings and the five non-pawn piece
// types and contains exactly one king per side.
func Validate(inv Inventory) error {
	var whiteKings, blackKings int
	for _, t := range inv {
		if !t.Piece.IsValid() {
			return &InvalidInventoryError{Reason: fmt.Sprintf("invalid piece token %v", t)}
		}
		if t.Piece == board.King {
			if t.Color == board.White {
				whiteKings++
			} else {
				blackKings++
			}
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return &InvalidInventoryError{Reason: "inventory must contain exactly one king per side"}
	}
	return nil
}

// combinations returns every multiset of size k drawn from tokens (which
// must already be sorted under less), in non-decreasing index order.
// This is the combinations-not-permutations rule from the total order
// above.
func combinations(tokens []Token, k int) []Inventory {
	if k == 0 {
		return []Inventory{nil}
	}

	var ret []Inventory
	var rec func(start int, acc Inventory)
	rec = func(start int, acc Inventory) {
		if len(acc) == k {
			cp := append(Inventory{}, acc...)
			ret = append(ret, cp)
			return
		}
		for i := start; i < len(tokens); i++ {
			next := append(append(Inventory{}, acc...), tokens[i])
			rec(i, next)
		}
	}
	rec(0, nil)
	return ret
}
