package v1

import "github.com/shopspring/decimal"

// GlobalStats holds run-wide figures derived from the full tick set.
type GlobalStats struct {
	// AverageQuantity is the mean trade quantity, 1 when there are no ticks.
	AverageQuantity decimal.Decimal `json:"averageQuantity"`
	TickCount       int             `json:"tickCount"`
	TotalQuantity   int64           `json:"totalQuantity"`
}
