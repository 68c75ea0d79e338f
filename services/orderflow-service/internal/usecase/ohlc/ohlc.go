package ohlc

import (
	"sort"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/ohlc/v1"
	tickv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"
)

// Usecase is the bar aggregator.
type Usecase struct {
	logger logger.Interface
}

// NewUsecase creates a new bar aggregator.
func NewUsecase(logger logger.Interface) *Usecase {
	return &Usecase{logger: logger}
}

// Aggregate buckets ticks into fixed-width bars in arrival order and returns
// them ascending by interval start. Empty buckets are omitted. A tick whose
// bucket key is negative is dropped and counted in the report.
func (u *Usecase) Aggregate(ticks []tickv1.Tick, iv interval.Interval, bigPlayerThreshold int64) ([]v1.Bar, v1.AggregateReport) {
	var report v1.AggregateReport
	buckets := make(map[int64]*v1.Bar)

	for _, tick := range ticks {
		start, ok := iv.BucketStart(tick.UnixMilli())
		if !ok {
			report.Rejected++
			continue
		}

		bar, exists := buckets[start]
		if !exists {
			bar = &v1.Bar{
				IntervalStart: iv.CalculateBucketTime(tick.Time),
				Open:          tick.Price,
				High:          tick.Price,
				Low:           tick.Price,
				Close:         tick.Price,
			}
			buckets[start] = bar
		} else {
			if tick.Price.GreaterThan(bar.High) {
				bar.High = tick.Price
			}
			if tick.Price.LessThan(bar.Low) {
				bar.Low = tick.Price
			}
			bar.Close = tick.Price
		}

		addVolume(bar, tick, bigPlayerThreshold)
		bar.TradeCount++
	}

	if report.Rejected > 0 {
		u.logger.Warn("ticks rejected by bar aggregator",
			logger.Field{Key: "rejected", Value: report.Rejected},
			logger.Field{Key: "interval", Value: iv.Name},
		)
	}

	starts := make([]int64, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	bars := make([]v1.Bar, 0, len(starts))
	for _, start := range starts {
		bars = append(bars, *buckets[start])
	}

	return bars, report
}

// addVolume puts the tick quantity into exactly one of the four volume classes.
func addVolume(bar *v1.Bar, tick tickv1.Tick, bigPlayerThreshold int64) {
	big := tick.Quantity >= bigPlayerThreshold

	switch {
	case tick.Aggressor == tickv1.SideSell && big:
		bar.BigPlayerSellVolume += tick.Quantity
	case tick.Aggressor == tickv1.SideSell:
		bar.SellVolume += tick.Quantity
	case big:
		bar.BigPlayerBuyVolume += tick.Quantity
	default:
		bar.BuyVolume += tick.Quantity
	}
}
