package pipeline

import (
	"context"
	"sync"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	pipelineDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/metrics"
)

// Runner applies cancel-and-restart to a pipeline: starting a run cancels the
// one in flight, and a run that finishes after being replaced returns
// v1.ErrRunSuperseded instead of its result.
type Runner struct {
	pipeline pipelineDomain.Usecase
	logger   logger.Interface

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewRunner creates a new Runner around pipeline.
func NewRunner(pipeline pipelineDomain.Usecase, logger logger.Interface) *Runner {
	return &Runner{pipeline: pipeline, logger: logger}
}

// Run starts a new generation and runs the pipeline under it.
func (r *Runner) Run(ctx context.Context, lines []string, cfg v1.Config) (*v1.Result, error) {
	runCtx, gen := r.begin(ctx)

	result, err := r.pipeline.Run(runCtx, lines, cfg)

	if !r.finish(gen) {
		metrics.ObserveSuperseded()
		r.logger.InfoContext(ctx, "discarding superseded pipeline run",
			logger.Field{Key: "generation", Value: gen},
		)
		return nil, v1.ErrRunSuperseded
	}

	return result, err
}

// Cancel stops the run in flight, if any. Its caller gets ErrRunSuperseded.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Runner) begin(ctx context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.generation++
	r.cancel = cancel
	return runCtx, r.generation
}

// finish releases the run context and reports whether gen is still current.
func (r *Runner) finish(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return false
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return true
}
