package mate_test

import (
	"context"
	"testing"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/inventory"
	"github.com/mateline/endgametb/pkg/mate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckmatesForKQvk(t *testing.T) {
	inv := inventory.Inventory{
		{board.King, board.White},
		{board.King, board.Black},
		{board.Queen, board.White},
	}

	mates, err := mate.CheckmatesFor(context.Background(), inv)
	require.NoError(t, err)

	assert.Contains(t, mates, "4k3/4Q3/5K2/8/8/8/8/8 b")
}

func TestCheckmatesForRejectsInvalidInventory(t *testing.T) {
	inv := inventory.Inventory{
		{board.King, board.White},
		{board.Queen, board.Black}, // missing black king
	}

	_, err := mate.CheckmatesFor(context.Background(), inv)
	assert.Error(t, err)
	var ierr *inventory.InvalidInventoryError
	assert.ErrorAs(t, err, &ierr)
}

func TestCheckmatesForCancellation(t *testing.T) {
	inv := inventory.Inventory{
		{board.King, board.White},
		{board.King, board.Black},
		{board.Queen, board.White},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mate.CheckmatesFor(ctx, inv)
	assert.Error(t, err)
}
