package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is the OHLC summary and four-way volume split of one interval bucket.
type Bar struct {
	IntervalStart       time.Time       `json:"intervalStart"`
	Open                decimal.Decimal `json:"open"`
	High                decimal.Decimal `json:"high"`
	Low                 decimal.Decimal `json:"low"`
	Close               decimal.Decimal `json:"close"`
	BuyVolume           int64           `json:"buyVolume"`
	BigPlayerBuyVolume  int64           `json:"bigPlayerBuyVolume"`
	SellVolume          int64           `json:"sellVolume"`
	BigPlayerSellVolume int64           `json:"bigPlayerSellVolume"`
	TradeCount          int64           `json:"tradeCount"`
}

// TotalVolume returns the sum of the four volume fields.
func (b Bar) TotalVolume() int64 {
	return b.BuyVolume + b.BigPlayerBuyVolume + b.SellVolume + b.BigPlayerSellVolume
}

// AggregateReport counts ticks the aggregator could not place in a bucket.
type AggregateReport struct {
	Rejected int
}
