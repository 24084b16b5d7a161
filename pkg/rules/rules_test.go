package rules_test

import (
	"testing"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCheckmate(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"4k3/4Q3/5K2/8/8/8/8/8 b", true},   // Qe7# supported by Kf6
		{"4k3/Q7/5K2/8/8/8/8/8 w", false},   // White to move, not mate
		{"k7/R7/KR6/8/8/8/8/8 b", true},     // ladder mate, Ra7 defended by Ka6, Rb6 covers b-file
		{"5k2/8/5K2/2N5/8/8/8/8 b", false},  // not even in check
	}

	for _, tt := range tests {
		pos, err := codec.Decode(tt.key)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.expected, rules.IsCheckmate(pos), tt.key)
	}
}

func TestIsStalemate(t *testing.T) {
	// White king a1 boxed in by the black queen on b3: not in check, no
	// legal move. Black king sits far away at h8, irrelevant to the trap.
	pos, err := codec.Decode("7k/8/8/8/8/1q6/8/K7 w")
	require.NoError(t, err)

	assert.False(t, rules.InCheck(pos))
	assert.True(t, rules.IsStalemate(pos))
	assert.False(t, rules.IsCheckmate(pos))
}

func TestLegalMovesExcludesSelfCheck(t *testing.T) {
	// White king e1 in check along the e-file from a black rook on e8;
	// stepping to e2 would still be in check and must be excluded.
	pos, err := codec.Decode("4r3/8/8/8/8/8/8/4K2k w")
	require.NoError(t, err)

	for _, m := range rules.LegalMoves(pos) {
		assert.NotEqual(t, "E2", m.To.String(), "king must not step back onto the checked file")
	}
}

func TestApplyRejectsMismatchedPiece(t *testing.T) {
	pos, err := codec.Decode("4k3/Q7/5K2/8/8/8/8/8 w")
	require.NoError(t, err)

	_, err = rules.Apply(pos, board.Move{Type: board.Normal, Piece: board.Queen, From: board.E4, To: board.E5})
	assert.Error(t, err)
	var rerr *rules.RulesEngineError
	assert.ErrorAs(t, err, &rerr)
}

func TestApplyPlaysLegalMove(t *testing.T) {
	pos, err := codec.Decode("4k3/Q7/5K2/8/8/8/8/8 w")
	require.NoError(t, err)

	next, err := rules.Apply(pos, board.Move{Type: board.Normal, Piece: board.Queen, From: board.A7, To: board.E7})
	require.NoError(t, err)
	assert.Equal(t, "4k3/4Q3/5K2/8/8/8/8/8 b", codec.Encode(next))
}
