// Package scenario fans a batch dataset out into individual-scenario views
// and processes them with bounded parallelism.
//
// Views share the batch's memory. Callers writing through mutable views
// must only touch their own scenario's elements.
package scenario

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/gridbuf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Slicer is a batch dataset that can produce individual-scenario views.
// *gridbuf.ConstDataset and *gridbuf.MutableDataset implement it.
type Slicer[D any] interface {
	gridbuf.Reader
	IndividualScenario(s gridbuf.Idx) (D, error)
}

// Func processes one scenario view.
type Func[D any] func(ctx context.Context, s gridbuf.Idx, view D) error

var (
	_ Slicer[*gridbuf.ConstDataset]   = (*gridbuf.ConstDataset)(nil)
	_ Slicer[*gridbuf.MutableDataset] = (*gridbuf.MutableDataset)(nil)
)

// Run calls fn once per scenario of src.
//
// By default every scenario runs and failures are collected into a
// *BatchError. With WithStopOnError the run is canceled at the first failure
// and a *ScenarioError is returned. Context cancellation is returned as is.
func Run[D any](ctx context.Context, src Slicer[D], fn Func[D], optFns ...Option) (err error) {
	o := applyOptions(optFns)
	batch := src.BatchSize()
	logger := o.logger.WithDataset(src.Name(), batch)
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "scenario.Run", trace.WithAttributes(
		attribute.String("gridbuf.dataset", src.Name()),
		attribute.Int64("gridbuf.batch_size", batch),
		attribute.Int("gridbuf.workers", o.workers),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if batch > math.MaxUint32+1 {
		return fmt.Errorf("%w: %d", ErrBatchTooLarge, batch)
	}

	var (
		g    *errgroup.Group
		gctx = ctx
	)
	if o.stopOnError {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(o.workers)

	var (
		mu     sync.Mutex
		failed = roaring.New()
		errs   = make(map[gridbuf.Idx]error)
	)

	for s := gridbuf.Idx(0); s < batch; s++ {
		if gctx.Err() != nil {
			break
		}
		key := uint32(s) //nolint:gosec // bounded by the batch size check
		g.Go(func() error {
			if err := o.controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseWorker()

			begin := time.Now()
			view, err := src.IndividualScenario(s)
			if err == nil {
				err = fn(gctx, s, view)
			}
			o.metrics.RecordScenarioRun(time.Since(begin), err)
			if err == nil {
				return nil
			}
			if o.stopOnError {
				return &ScenarioError{Scenario: s, Err: err}
			}
			mu.Lock()
			failed.Add(key)
			errs[s] = err
			mu.Unlock()
			return nil
		})
	}

	werr := g.Wait()
	if werr == nil {
		werr = ctx.Err()
	}
	span.SetAttributes(attribute.Int64("gridbuf.failed", int64(failed.GetCardinality())))
	logger.LogBatchRun(ctx, int(batch), int(failed.GetCardinality()), time.Since(start))
	if werr != nil {
		return werr
	}
	if !failed.IsEmpty() {
		return &BatchError{Failed: failed, Errors: errs}
	}
	return nil
}
