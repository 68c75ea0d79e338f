package bubble

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/orderflow/pkg/util"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/bubble/v1"
	tickv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
)

// Usecase is the impact detector.
type Usecase struct{}

// NewUsecase creates a new impact detector.
func NewUsecase() *Usecase {
	return &Usecase{}
}

type group struct {
	ms       int64
	order    int
	sum      int64
	max      int64
	maxPrice decimal.Decimal
	count    int
}

// Detect groups ticks by exact millisecond and emits a bubble for every group
// with sum >= thresholdQ and max >= thresholdBigPlayer. A non-positive
// averageQuantity is treated as 1.
func (u *Usecase) Detect(ticks []tickv1.Tick, thresholdQ, thresholdBigPlayer int64, averageQuantity decimal.Decimal) []v1.Bubble {
	if !averageQuantity.IsPositive() {
		averageQuantity = decimal.NewFromInt(1)
	}

	groups := make(map[int64]*group)
	for _, tick := range ticks {
		ms := tick.UnixMilli()
		g, ok := groups[ms]
		if !ok {
			g = &group{ms: ms, order: len(groups), max: -1}
			groups[ms] = g
		}

		g.sum += tick.Quantity
		g.count++
		if tick.Quantity > g.max {
			g.max = tick.Quantity
			g.maxPrice = tick.Price
		}
	}

	qualifying := make([]*group, 0)
	for _, g := range groups {
		if g.sum >= thresholdQ && g.max >= thresholdBigPlayer {
			qualifying = append(qualifying, g)
		}
	}
	sort.Slice(qualifying, func(i, j int) bool {
		if qualifying[i].ms != qualifying[j].ms {
			return qualifying[i].ms < qualifying[j].ms
		}
		return qualifying[i].order < qualifying[j].order
	})

	bubbles := make([]v1.Bubble, 0, len(qualifying))
	for _, g := range qualifying {
		bubbles = append(bubbles, v1.Bubble{
			Time:          util.TimeFromUnixMilli(g.ms),
			Price:         g.maxPrice,
			TotalQuantity: g.sum,
			MaxQuantity:   g.max,
			TradeCount:    g.count,
			ImpactScore:   ImpactScore(g.max, averageQuantity),
		})
	}
	return bubbles
}

// ImpactScore returns maxQuantity / averageQuantity.
func ImpactScore(maxQuantity int64, averageQuantity decimal.Decimal) decimal.Decimal {
	if !averageQuantity.IsPositive() {
		averageQuantity = decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(maxQuantity).DivRound(averageQuantity, 8)
}
