package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bubble is a high-impact cluster of trades sharing one exact millisecond.
type Bubble struct {
	Time          time.Time       `json:"time"`
	// Price is taken from the first tick holding the group's max quantity.
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int64           `json:"totalQuantity"`
	MaxQuantity   int64           `json:"maxQuantity"`
	TradeCount    int             `json:"tradeCount"`
	ImpactScore   decimal.Decimal `json:"impactScore"`
}
