package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares, bit N corresponding to Square(N).
// It relies on CPU support for popcount and bit-scan.
type Bitboard uint64

const EmptyBitboard Bitboard = 0

func (b Bitboard) IsSet(sq Square) bool {
	return b&BitMask(sq) != 0
}

// PopCount returns the number of set squares.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LastPopSquare returns the least-significant set square, or NumSquares if empty.
func (b Bitboard) LastPopSquare() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Squares returns the set squares in ascending order.
func (b Bitboard) Squares() []Square {
	var ret []Square
	for tmp := b; tmp != 0; tmp &= tmp - 1 {
		ret = append(ret, Square(bits.TrailingZeros64(uint64(tmp))))
	}
	return ret
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for i := ZeroSquare; i < NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			sb.WriteRune('/')
		}
		if b.IsSet(NumSquares - 1 - i) {
			sb.WriteRune('X')
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// BitMask returns the singleton bitboard for sq.
func BitMask(sq Square) Bitboard {
	return Bitboard(1) << sq
}

// BitRank returns the bitboard for an entire rank.
func BitRank(r Rank) Bitboard {
	return Bitboard(0xff) << (r.V() << 3)
}

// BitFile returns the bitboard for an entire file.
func BitFile(f File) Bitboard {
	return Bitboard(0x0101010101010101) << f.V()
}

// Attackboard returns the attack/move squares for a non-pawn piece on sq,
// given the board's current occupancy.
func Attackboard(occ Occupancy, sq Square, piece Piece) Bitboard {
	switch piece {
	case King:
		return KingAttackboard(sq)
	case Queen:
		return QueenAttackboard(occ, sq)
	case Rook:
		return RookAttackboard(occ, sq)
	case Bishop:
		return BishopAttackboard(occ, sq)
	case Knight:
		return KnightAttackboard(sq)
	default:
		panic("board: invalid piece for Attackboard")
	}
}

// KingAttackboard returns the King's (non-sliding) attack squares.
func KingAttackboard(sq Square) Bitboard {
	return kingAttacks[sq]
}

var kingAttacks [NumSquares]Bitboard

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		m := BitMask(sq)
		ring := ((m << 1) &^ BitFile(FileH)) | ((m >> 1) &^ BitFile(FileA))
		ring |= m
		ring |= ring<<8 | ring>>8
		kingAttacks[sq] = ring &^ m
	}
}

// KnightAttackboard returns the Knight's (non-sliding) attack squares.
func KnightAttackboard(sq Square) Bitboard {
	return knightAttacks[sq]
}

var knightAttacks [NumSquares]Bitboard

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		m := BitMask(sq)
		one := ((m << 1) &^ BitFile(FileH)) | ((m >> 1) &^ BitFile(FileA))
		two := ((m << 2) &^ (BitFile(FileG) | BitFile(FileH))) | ((m >> 2) &^ (BitFile(FileA) | BitFile(FileB)))
		knightAttacks[sq] = one<<16 | one>>16 | two<<8 | two>>8
	}
}

// Occupancy tracks the same population of squares in four orientations
// (straight, 90-degree, and the two 45-degree diagonals) so that sliding
// attacks reduce to table lookups instead of ray-tracing on every query.
// The "rotated bitboard" technique: files and diagonals are remapped onto
// contiguous 8-bit lanes in the rotated views, so masking out a rank/file/
// diagonal's occupancy state is a single shift-and-mask.
type Occupancy struct {
	straight, turned, diagUp, diagDown Bitboard
}

// NewOccupancy builds an Occupancy from a plain bitboard.
func NewOccupancy(bb Bitboard) Occupancy {
	var ret Occupancy
	for _, sq := range bb.Squares() {
		ret = ret.Xor(sq)
	}
	return ret
}

// Mask returns the occupancy in normal (straight) orientation.
func (o Occupancy) Mask() Bitboard {
	return o.straight
}

// Xor toggles sq in all four orientations and returns the result.
func (o Occupancy) Xor(sq Square) Occupancy {
	return Occupancy{
		straight: o.straight ^ BitMask(sq),
		turned:   o.turned ^ BitMask(rotate90[sq]),
		diagUp:   o.diagUp ^ BitMask(rotateDiagUp[sq]),
		diagDown: o.diagDown ^ BitMask(rotateDiagDown[sq]),
	}
}

func (o Occupancy) String() string {
	return fmt.Sprintf("%v [turned=%v, diagUp=%v, diagDown=%v]", o.straight, o.turned, o.diagUp, o.diagDown)
}

const lineStates = 256 // every possible 8-bit occupancy state of a rank/file/diagonal lane

// rotate90 maps a square to its index in the 90-degree-turned view, where
// files become contiguous 8-bit lanes (offset file*8).
var rotate90 = [NumSquares]Square{
	0, 8, 16, 24, 32, 40, 48, 56,
	1, 9, 17, 25, 33, 41, 49, 57,
	2, 10, 18, 26, 34, 42, 50, 58,
	3, 11, 19, 27, 35, 43, 51, 59,
	4, 12, 20, 28, 36, 44, 52, 60,
	5, 13, 21, 29, 37, 45, 53, 61,
	6, 14, 22, 30, 38, 46, 54, 62,
	7, 15, 23, 31, 39, 47, 55, 63,
}

// RookAttackboard returns the Rook's sliding attack squares on sq.
func RookAttackboard(occ Occupancy, sq Square) Bitboard {
	rankState := occ.straight >> (sq.Rank().V() << 3) & 0xff
	fileState := occ.turned >> (sq.File().V() << 3) & 0xff
	return rookRankAttacks[sq][rankState] | rookFileAttacks[sq][fileState]
}

var (
	rookRankAttacks [NumSquares][lineStates]Bitboard
	rookFileAttacks [NumSquares][lineStates]Bitboard
)

func init() {
	// Ray-trace each direction once per (square, lane-state) pair and cache it.
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := Bitboard(0); state < lineStates; state++ {
			var tmp Bitboard
			for i := sq.File().V() + 1; i < 8; i++ { // toward file A
				tmp |= BitMask(Square(i) + Square(sq.Rank().V())<<3)
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			for i := sq.File().V() - 1; i >= 0; i-- { // toward file H
				tmp |= BitMask(Square(i) + Square(sq.Rank().V())<<3)
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			rookRankAttacks[sq][state] = tmp
		}
	}

	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := Bitboard(0); state < lineStates; state++ {
			var tmp Bitboard
			for i := sq.Rank().V() + 1; i < 8; i++ { // toward rank 8
				tmp |= BitMask(Square(sq.File().V()) + Square(i)<<3)
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			for i := sq.Rank().V() - 1; i >= 0; i-- { // toward rank 1
				tmp |= BitMask(Square(sq.File().V()) + Square(i)<<3)
				if BitMask(Square(i))&state != 0 {
					break
				}
			}
			rookFileAttacks[sq][state] = tmp
		}
	}
}

// rotateDiagUp/rotateDiagDown map a square to its index in the two 45-degree
// rotated views. diagMaskUp/diagMaskDown give the bit-width of the diagonal
// through each square (the composition of "length" and "2^length-1" from the
// classic construction), and diagOffsetUp/diagOffsetDown its bit offset.
var rotateDiagUp = [NumSquares]Square{
	28, 21, 15, 10, 6, 3, 1, 0,
	36, 29, 22, 16, 11, 7, 4, 2,
	43, 37, 30, 23, 17, 12, 8, 5,
	49, 44, 38, 31, 24, 18, 13, 9,
	54, 50, 45, 39, 32, 25, 19, 14,
	58, 55, 51, 46, 40, 33, 26, 20,
	61, 59, 56, 52, 47, 41, 34, 27,
	63, 62, 60, 57, 53, 48, 42, 35,
}

var diagMaskUp = [NumSquares]int{
	255, 127, 63, 31, 15, 7, 3, 1,
	127, 255, 127, 63, 31, 15, 7, 3,
	63, 127, 255, 127, 63, 31, 15, 7,
	31, 63, 127, 255, 127, 63, 31, 15,
	15, 31, 63, 127, 255, 127, 63, 31,
	7, 15, 31, 63, 127, 255, 127, 63,
	3, 7, 15, 31, 63, 127, 255, 127,
	1, 3, 7, 15, 31, 63, 127, 255,
}

var diagOffsetUp = [NumSquares]int{
	28, 21, 15, 10, 6, 3, 1, 0,
	36, 28, 21, 15, 10, 6, 3, 1,
	43, 36, 28, 21, 15, 10, 6, 3,
	49, 43, 36, 28, 21, 15, 10, 6,
	54, 49, 43, 36, 28, 21, 15, 10,
	58, 54, 49, 43, 36, 28, 21, 15,
	61, 58, 54, 49, 43, 36, 28, 21,
	63, 61, 58, 54, 49, 43, 36, 28,
}

var rotateDiagDown = [NumSquares]Square{
	0, 1, 3, 6, 10, 15, 21, 28,
	2, 4, 7, 11, 16, 22, 29, 36,
	5, 8, 12, 17, 23, 30, 37, 43,
	9, 13, 18, 24, 31, 38, 44, 49,
	14, 19, 25, 32, 39, 45, 50, 54,
	20, 26, 33, 40, 46, 51, 55, 58,
	27, 34, 41, 47, 52, 56, 59, 61,
	35, 42, 48, 53, 57, 60, 62, 63,
}

var diagMaskDown = [NumSquares]int{
	1, 3, 7, 15, 31, 63, 127, 255,
	3, 7, 15, 31, 63, 127, 255, 127,
	7, 15, 31, 63, 127, 255, 127, 63,
	15, 31, 63, 127, 255, 127, 63, 31,
	31, 63, 127, 255, 127, 63, 31, 15,
	63, 127, 255, 127, 63, 31, 15, 7,
	127, 255, 127, 63, 31, 15, 7, 3,
	255, 127, 63, 31, 15, 7, 3, 1,
}

var diagOffsetDown = [NumSquares]int{
	0, 1, 3, 6, 10, 15, 21, 28,
	1, 3, 6, 10, 15, 21, 28, 36,
	3, 6, 10, 15, 21, 28, 36, 43,
	6, 10, 15, 21, 28, 36, 43, 49,
	10, 15, 21, 28, 36, 43, 49, 54,
	15, 21, 28, 36, 43, 49, 54, 58,
	21, 28, 36, 43, 49, 54, 58, 61,
	28, 36, 43, 49, 54, 58, 61, 63,
}

// BishopAttackboard returns the Bishop's sliding attack squares on sq.
func BishopAttackboard(occ Occupancy, sq Square) Bitboard {
	up := int(occ.diagUp>>diagOffsetUp[sq]) & diagMaskUp[sq]
	down := int(occ.diagDown>>diagOffsetDown[sq]) & diagMaskDown[sq]
	return bishopUpAttacks[sq][up] | bishopDownAttacks[sq][down]
}

var (
	bishopUpAttacks, bishopDownAttacks [NumSquares][lineStates]Bitboard
)

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := Bitboard(0); state <= Bitboard(diagMaskUp[sq]); state++ {
			var tmp Bitboard
			for i := 1; i < minInt(8-sq.Rank().V(), 8-sq.File().V()); i++ {
				tmp |= BitMask(Square(sq.Rank().V()+i)<<3 + Square(sq.File().V()+i))
				if BitMask(Square(minInt(sq.Rank().V(), sq.File().V())+i))&state != 0 {
					break
				}
			}
			for i := 1; i < minInt(sq.Rank().V(), sq.File().V())+1; i++ {
				tmp |= BitMask(Square(sq.Rank().V()-i)<<3 + Square(sq.File().V()-i))
				if BitMask(Square(minInt(sq.Rank().V(), sq.File().V())-i))&state != 0 {
					break
				}
			}
			bishopUpAttacks[sq][state] = tmp
		}
	}

	for sq := ZeroSquare; sq < NumSquares; sq++ {
		for state := Bitboard(0); state <= Bitboard(diagMaskDown[sq]); state++ {
			var tmp Bitboard
			for i := 1; i < minInt(8-sq.Rank().V(), sq.File().V()+1); i++ {
				tmp |= BitMask(Square(sq.Rank().V()+i)<<3 + Square(sq.File().V()-i))
				if BitMask(Square(minInt(sq.Rank().V(), 7-sq.File().V())+i))&state != 0 {
					break
				}
			}
			for i := 1; i < minInt(sq.Rank().V()+1, 8-sq.File().V()); i++ {
				tmp |= BitMask(Square(sq.Rank().V()-i)<<3 + Square(sq.File().V()+i))
				if BitMask(Square(minInt(sq.Rank().V(), 7-sq.File().V())-i))&state != 0 {
					break
				}
			}
			bishopDownAttacks[sq][state] = tmp
		}
	}
}

// QueenAttackboard returns the Queen's sliding attack squares on sq.
func QueenAttackboard(occ Occupancy, sq Square) Bitboard {
	return RookAttackboard(occ, sq) | BishopAttackboard(occ, sq)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
