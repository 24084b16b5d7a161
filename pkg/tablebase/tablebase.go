// Package tablebase implements the backward-induction fixed-point build
// and the optimal-move probe on top of it.
package tablebase

import "github.com/mateline/endgametb/pkg/inventory"

// Tablebase is the sequence L0, L1, ..., LD of disjoint canonical-key
// sets produced by Build: Layers[d] is Ld. Immutable once built.
type Tablebase struct {
	Layers []map[string]struct{}
	depth  map[string]int
}

// NumLayers returns D+1, the number of layers present (L0..LD).
func (tb *Tablebase) NumLayers() int {
	return len(tb.Layers)
}

// Depth returns the layer index a key was first admitted to, if any.
func (tb *Tablebase) Depth(key string) (int, bool) {
	d, ok := tb.depth[key]
	return d, ok
}

// Size returns the total number of distinct keys across all layers.
func (tb *Tablebase) Size() int {
	return len(tb.depth)
}

func newTablebase() *Tablebase {
	return &Tablebase{depth: map[string]int{}}
}

func (tb *Tablebase) appendLayer(layer map[string]struct{}) {
	d := len(tb.Layers)
	tb.Layers = append(tb.Layers, layer)
	for key := range layer {
		tb.depth[key] = d
	}
}

// Options configures a build.
type Options struct {
	// MaxDepth is the plies-to-mate horizon; the build never exceeds it.
	MaxDepth int
	// MaxPieces bounds both the checkmate enumerator and the retrograde
	// generator's uncapture step.
	MaxPieces int
	// StartingPieces, if set, restricts the seed to subsets of this
	// inventory instead of every inventory of size <= MaxPieces: an
	// uncapture during retrograde expansion can restore a piece that was
	// never on the board at depth 0, so the seed must include every
	// smaller inventory the starting one could have been reached from
	// (see inventory.SubsetsOf).
	StartingPieces *inventory.Inventory
	// Parallel expands each layer's candidate predecessors concurrently
	// across goroutines, using a sharded position set (hash.go) to keep
	// inserts race-free. The visible result is identical to the
	// sequential build; this only affects wall-clock time.
	Parallel bool
}
