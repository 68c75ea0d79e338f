package tick

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/util"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/codec"
)

// ctxCheckEvery is how many lines are processed between cancellation checks.
const ctxCheckEvery = 1024

// Usecase is the tick normalizer.
type Usecase struct {
	logger logger.Interface
}

// NewUsecase creates a new tick normalizer.
func NewUsecase(logger logger.Interface) *Usecase {
	return &Usecase{logger: logger}
}

// aggressorState carries the last emitted price through one Normalize call.
type aggressorState struct {
	lastPrice decimal.Decimal
	seen      bool
}

// classify applies the price-direction rule. An unchanged price keeps BUY.
func (s *aggressorState) classify(price decimal.Decimal) v1.Side {
	side := v1.SideBuy
	if s.seen && price.LessThan(s.lastPrice) {
		side = v1.SideSell
	}
	s.lastPrice = price
	s.seen = true
	return side
}

// Normalize decodes lines into ticks for instrumentID in feed order.
// Undecodable or invalid lines count as malformed, lines without the
// instrument count as filtered; neither aborts the call. The only error
// returned is the context error when the run is cancelled.
func (u *Usecase) Normalize(ctx context.Context, lines []string, instrumentID string) ([]v1.Tick, v1.NormalizeReport, error) {
	report := v1.NormalizeReport{Lines: len(lines)}
	ticks := make([]v1.Tick, 0, len(lines))
	state := &aggressorState{}

	for i, line := range lines {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
		}

		record, err := codec.Decode(line)
		if err != nil {
			report.Malformed++
			u.skip(ctx, i, "decode", err)
			continue
		}

		if !record.Has(instrumentID) {
			report.Filtered++
			continue
		}

		trade, err := record.ParseTrade(instrumentID)
		if err != nil {
			report.Malformed++
			u.skip(ctx, i, "invalid_trade", err)
			continue
		}

		ticks = append(ticks, v1.Tick{
			Time:      util.TimeFromUnixMilli(trade.TimestampMs),
			Price:     trade.Price,
			Quantity:  trade.Quantity,
			Aggressor: state.classify(trade.Price),
		})
	}

	report.Accepted = len(ticks)
	return ticks, report, nil
}

func (u *Usecase) skip(ctx context.Context, index int, reason string, err error) {
	u.logger.DebugContext(ctx, "skipping feed line",
		logger.Field{Key: "line", Value: index + 1},
		logger.Field{Key: "reason", Value: reason},
		logger.Field{Key: "error", Value: err.Error()},
	)
}
