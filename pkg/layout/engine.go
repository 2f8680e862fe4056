package layout

import (
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// parallelThreshold is the label count below which the engine stays on the
// calling goroutine regardless of the configured worker count.
const parallelThreshold = 128

// Engine runs the iterative label placement. An Engine holds no per-run
// state and may be shared by concurrent callers.
type Engine struct {
	params  Params
	workers int
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many goroutines share each iteration for large label
// sets. Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		e.workers = n
	}
}

// WithLogger sets the logger for run summaries. Nil discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine using params.
func New(params Params, opts ...Option) *Engine {
	e := &Engine{
		params:  params,
		workers: 1,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.params }

// Result is the outcome of a run.
type Result struct {
	// Boxes are copies of the input boxes with final offsets, in input order.
	Boxes []LabelBox
	// Settled is true when an iteration found no overlap. False means the
	// iteration budget ran out first.
	Settled bool
	// Iterations counts the iterations performed, including the final
	// overlap-free one when settled.
	Iterations int
}

// Placements returns the final offset of every label, in input order.
func (r Result) Placements() []Placement {
	out := make([]Placement, len(r.Boxes))
	for i, b := range r.Boxes {
		out[i] = Placement{Index: b.Index, Offset: b.Offset}
	}
	return out
}

// Moved reports whether any label ended away from its anchor.
func (r Result) Moved() bool {
	for _, b := range r.Boxes {
		if b.Offset != (r2.Vec{}) {
			return true
		}
	}
	return false
}

// Run places boxes around the given markers. boxes are not modified; the
// result holds copies. markers are indexed by dataset index, so a box with
// Index i skips markers[i]. Points without a label still belong in markers.
//
// Run fails only for invalid params (INVALID_CONFIG) or impossible geometry
// (LAYOUT_ERROR). Running out of iterations is reported through
// Result.Settled.
func (e *Engine) Run(boxes []LabelBox, markers []r2.Vec) (Result, error) {
	if err := e.params.Validate(); err != nil {
		return Result{}, err
	}
	if err := validate(boxes, markers); err != nil {
		return Result{}, err
	}

	start := time.Now()
	cur := slices.Clone(boxes)
	res := Result{Boxes: cur}
	if len(cur) == 0 {
		res.Settled = true
		return res, nil
	}

	next := make([]r2.Vec, len(cur))
	for res.Iterations < e.params.MaxIterations {
		res.Iterations++
		f := &frame{params: e.params, boxes: cur, markers: markers}
		if !e.iterate(f, next) {
			res.Settled = true
			break
		}
		for i := range cur {
			cur[i].Offset = next[i]
		}
	}

	e.logger.Debug("label layout complete",
		"labels", len(cur),
		"markers", len(markers),
		"iterations", res.Iterations,
		"settled", res.Settled,
		"duration", time.Since(start))
	return res, nil
}

// iterate fills next from the frozen frame and reports whether any label
// overlapped. Workers own disjoint index ranges of next.
func (e *Engine) iterate(f *frame, next []r2.Vec) bool {
	n := len(f.boxes)
	workers := min(e.workers, n)
	if workers <= 1 || n < parallelThreshold {
		return fill(f, next, 0, n)
	}

	overlapped := make([]bool, workers)
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := range workers {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		g.Go(func() error {
			overlapped[w] = fill(f, next, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
	return slices.Contains(overlapped, true)
}

func fill(f *frame, next []r2.Vec, lo, hi int) bool {
	hit := false
	for i := lo; i < hi; i++ {
		push, pushed := f.forceOn(i)
		next[i] = f.step(i, push, pushed)
		hit = hit || pushed
	}
	return hit
}
