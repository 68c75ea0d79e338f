package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the inferred aggressor of a trade.
type Side string

const (
	// SideBuy marks a trade attributed to a buyer lifting the offer.
	SideBuy Side = "BUY"
	// SideSell marks a trade attributed to a seller hitting the bid.
	SideSell Side = "SELL"
)

// Tick represents a single normalized trade for the selected instrument.
type Tick struct {
	Time      time.Time
	Price     decimal.Decimal
	Quantity  int64
	Aggressor Side
}

// UnixMilli returns the tick time in epoch milliseconds, the grouping grain.
func (t Tick) UnixMilli() int64 {
	return t.Time.UnixMilli()
}

// NormalizeReport counts what happened to each input line.
type NormalizeReport struct {
	Lines     int
	Accepted  int
	Malformed int
	Filtered  int
}

// Skipped returns the number of lines that did not produce a tick.
func (r NormalizeReport) Skipped() int {
	return r.Malformed + r.Filtered
}
