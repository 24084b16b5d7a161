package tablebase

import (
	"context"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Launcher manages asynchronous, haltable builds, mirroring
// pkg/search/searchctl's Launcher/Handle split: a build runs on its own
// goroutine and reports a Progress after each completed layer, while the
// caller can halt it early and still get back everything finished so
// far. The Progress channel holds one report; a report the caller has
// not yet received is replaced by the next one.
type Launcher struct{}

// Handle lets the caller stop an in-flight build.
type Handle interface {
	// Halt requests the build stop after its current layer and blocks
	// until it has, returning the tablebase as of the last completed
	// layer. Safe to call more than once.
	Halt() (*Tablebase, error)
}

// Launch starts a build on its own goroutine and returns immediately.
// The Progress channel is closed when the build finishes, halts, or
// fails; depthLimit, if set, caps the build below opts.MaxDepth
// without needing a fresh Options value -- useful for a caller that
// wants to pause at a shallower horizon than the one it ultimately
// intends to reach.
func (Launcher) Launch(ctx context.Context, opts Options, depthLimit lang.Optional[uint]) (Handle, <-chan Progress) {
	if limit, ok := depthLimit.V(); ok && int(limit) < opts.MaxDepth {
		opts.MaxDepth = int(limit)
	}

	out := make(chan Progress, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
		done: iox.NewAsyncCloser(),
	}
	go h.process(ctx, opts, out)

	return h, out
}

type handle struct {
	init, quit, done iox.AsyncCloser

	tb  *Tablebase
	err error
}

func (h *handle) process(ctx context.Context, opts Options, out chan Progress) {
	defer h.done.Close() // last: h.tb/h.err are final once this fires
	defer h.init.Close() // in case the build produced zero layers
	defer close(out)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	tb, err := build(wctx, opts, func(p Progress) {
		select {
		case out <- p:
		default:
			<-out
			out <- p
		}
		h.init.Close() // at least one layer is ready after this point
	})

	h.tb, h.err = tb, err
}

func (h *handle) Halt() (*Tablebase, error) {
	<-h.init.Closed()
	h.quit.Close()
	<-h.done.Closed()

	return h.tb, h.err
}
