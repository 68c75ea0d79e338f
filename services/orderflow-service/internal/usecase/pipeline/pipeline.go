package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/util"
	bubbleDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/bubble"
	ohlcDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/ohlc"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
	tickDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/stats"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/metrics"
)

// Usecase is the batch pipeline: lines -> ticks -> {stats, bars, bubbles}.
type Usecase struct {
	normalizer tickDomain.Usecase
	aggregator ohlcDomain.Usecase
	detector   bubbleDomain.Usecase
	logger     logger.Interface
}

// NewUsecase creates a new pipeline.
func NewUsecase(
	normalizer tickDomain.Usecase,
	aggregator ohlcDomain.Usecase,
	detector bubbleDomain.Usecase,
	logger logger.Interface,
) *Usecase {
	return &Usecase{
		normalizer: normalizer,
		aggregator: aggregator,
		detector:   detector,
		logger:     logger,
	}
}

// Run validates cfg and runs every stage over lines. Configuration errors are
// returned before any work is done; malformed lines only show up in the
// result diagnostics. Each call builds its own state and shares nothing with
// other calls.
func (u *Usecase) Run(ctx context.Context, lines []string, cfg v1.Config) (*v1.Result, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		metrics.ObserveRun(metrics.OutcomeInvalidConfig, time.Since(start))
		return nil, err
	}

	iv, err := interval.Parse(cfg.Interval)
	if err != nil {
		metrics.ObserveRun(metrics.OutcomeInvalidConfig, time.Since(start))
		return nil, err
	}

	runID := uuid.NewString()
	ctx = util.WithRequestID(ctx, runID)

	u.logger.InfoContext(ctx, "pipeline run started",
		logger.Field{Key: "instrument", Value: cfg.InstrumentID},
		logger.Field{Key: "interval", Value: iv.Name},
		logger.Field{Key: "lines", Value: len(lines)},
	)

	ticks, normalized, err := u.normalizer.Normalize(ctx, lines, cfg.InstrumentID)
	if err != nil {
		return nil, u.abort(ctx, start, err)
	}
	metrics.ObserveLines(normalized.Accepted, normalized.Malformed, normalized.Filtered)

	globalStats := stats.Compute(ticks)

	if err := ctx.Err(); err != nil {
		return nil, u.abort(ctx, start, err)
	}
	bars, aggregated := u.aggregator.Aggregate(ticks, iv, cfg.ThresholdBigPlayer)

	if err := ctx.Err(); err != nil {
		return nil, u.abort(ctx, start, err)
	}
	bubbles := u.detector.Detect(ticks, cfg.ThresholdQ, cfg.ThresholdBigPlayer, globalStats.AverageQuantity)

	if err := ctx.Err(); err != nil {
		return nil, u.abort(ctx, start, err)
	}

	result := &v1.Result{
		RunID:      runID,
		Instrument: cfg.InstrumentID,
		Interval:   iv,
		Stats:      globalStats,
		Bars:       bars,
		Bubbles:    bubbles,
		Diagnostics: v1.Diagnostics{
			LinesTotal:    normalized.Lines,
			Malformed:     normalized.Malformed,
			Filtered:      normalized.Filtered,
			TicksAccepted: normalized.Accepted,
			RejectedTicks: aggregated.Rejected,
		},
	}

	elapsed := time.Since(start)
	metrics.ObserveRun(metrics.OutcomeSuccess, elapsed)
	metrics.ObserveOutput(len(bars), len(bubbles))

	u.logger.InfoContext(ctx, "pipeline run finished",
		logger.Field{Key: "ticks", Value: normalized.Accepted},
		logger.Field{Key: "skipped", Value: normalized.Skipped()},
		logger.Field{Key: "rejected", Value: aggregated.Rejected},
		logger.Field{Key: "bars", Value: len(bars)},
		logger.Field{Key: "bubbles", Value: len(bubbles)},
		logger.Field{Key: "average_quantity", Value: globalStats.AverageQuantity.String()},
		logger.Field{Key: "duration", Value: elapsed.String()},
	)

	return result, nil
}

func (u *Usecase) abort(ctx context.Context, start time.Time, err error) error {
	metrics.ObserveRun(metrics.OutcomeCancelled, time.Since(start))
	u.logger.WarnContext(ctx, "pipeline run aborted", logger.Field{Key: "reason", Value: err.Error()})
	return errors.TracerFromError(err)
}
