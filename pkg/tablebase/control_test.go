package tablebase_test

import (
	"context"
	"testing"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/inventory"
	"github.com/mateline/endgametb/pkg/tablebase"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncherRunsToCompletion(t *testing.T) {
	kqvk := inventory.Inventory{
		{Piece: board.King, Color: board.White},
		{Piece: board.King, Color: board.Black},
		{Piece: board.Queen, Color: board.White},
	}

	var l tablebase.Launcher
	h, progress := l.Launch(context.Background(), tablebase.Options{
		MaxDepth:       2,
		MaxPieces:      3,
		StartingPieces: &kqvk,
	}, lang.Optional[uint]{})

	var seen []tablebase.Progress
	for p := range progress {
		seen = append(seen, p)
	}
	require.NotEmpty(t, seen)

	tb, err := h.Halt()
	require.NoError(t, err)
	assert.Equal(t, len(seen), tb.NumLayers())
}

func TestLauncherHaltReturnsPartialResultEarly(t *testing.T) {
	kqvk := inventory.Inventory{
		{Piece: board.King, Color: board.White},
		{Piece: board.King, Color: board.Black},
		{Piece: board.Queen, Color: board.White},
	}

	var l tablebase.Launcher
	h, progress := l.Launch(context.Background(), tablebase.Options{
		MaxDepth:       9,
		MaxPieces:      3,
		StartingPieces: &kqvk,
	}, lang.Optional[uint]{})

	<-progress // wait for at least L0 to finish

	// halting mid-build surfaces ctx.Err(); a build that finished first
	// reports nil instead -- either way the partial tablebase is usable.
	tb, _ := h.Halt()
	assert.NotNil(t, tb)
}

func TestLauncherDepthLimitCapsBuild(t *testing.T) {
	kqvk := inventory.Inventory{
		{Piece: board.King, Color: board.White},
		{Piece: board.King, Color: board.Black},
		{Piece: board.Queen, Color: board.White},
	}

	var l tablebase.Launcher
	h, progress := l.Launch(context.Background(), tablebase.Options{
		MaxDepth:       9,
		MaxPieces:      3,
		StartingPieces: &kqvk,
	}, lang.Some(uint(1)))

	for range progress {
	}
	tb, err := h.Halt()
	require.NoError(t, err)
	assert.LessOrEqual(t, tb.NumLayers(), 2)
}
