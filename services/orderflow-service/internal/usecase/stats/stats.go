package stats

import (
	"github.com/shopspring/decimal"

	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/stats/v1"
	tickv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
)

// divisionPrecision is the number of fractional digits kept for the mean.
const divisionPrecision = 16

// Compute returns the global statistics of ticks. The average quantity is 1
// when the total quantity is zero, so it is always safe to divide by.
func Compute(ticks []tickv1.Tick) v1.GlobalStats {
	var total int64
	for _, tick := range ticks {
		total += tick.Quantity
	}

	if total == 0 {
		return v1.GlobalStats{
			AverageQuantity: decimal.NewFromInt(1),
			TickCount:       len(ticks),
		}
	}

	return v1.GlobalStats{
		AverageQuantity: decimal.NewFromInt(total).DivRound(decimal.NewFromInt(int64(len(ticks))), divisionPrecision),
		TickCount:       len(ticks),
		TotalQuantity:   total,
	}
}
