package codec_test

import (
	"testing"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"4k3/Q7/5K2/8/8/8/8/8 w",
		"8/4k3/8/3Q4/8/5K2/8/8 w",
		"5k2/8/8/3R1K2/8/8/8/8 w",
		"5k2/8/5K2/2N5/8/8/8/8 b",
		"7k/8/8/1B6/8/4K3/8/8 w",
		"6k1/8/5K2/8/1n6/7Q/8/8 w",
		"8/8/2Q2n1k/5K2/8/8/8/8 w",
	}

	for _, key := range tests {
		pos, err := codec.Decode(key)
		require.NoError(t, err, key)
		assert.Equal(t, key, codec.Encode(pos))
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []string{
		"4k3/Q7/5K2/8/8/8/8 w",    // only 7 ranks
		"4k3/Q7/5K2/8/8/8/8/8",    // missing side
		"4k3/Q7/5K2/8/8/8/8/8 x",  // invalid side
		"4k3/Q7/5K9/8/8/8/8/8 w",  // rank overflow
		"4k2z/Q7/5K2/8/8/8/8/8 w", // invalid piece letter
	}

	for _, key := range tests {
		_, err := codec.Decode(key)
		assert.Error(t, err, key)
		var malformed *codec.MalformedPositionError
		assert.ErrorAs(t, err, &malformed, key)
	}
}

func TestWithSideToMove(t *testing.T) {
	pos, err := codec.Decode("4k3/Q7/5K2/8/8/8/8/8 w")
	require.NoError(t, err)

	flipped := codec.WithSideToMove(pos, board.Black)
	assert.Equal(t, board.Black, flipped.Turn())
	assert.Equal(t, board.White, pos.Turn())
}
