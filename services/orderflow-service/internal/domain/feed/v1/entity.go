package v1

import (
	"bytes"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Record is one decoded line of the market-data feed.
type Record struct {
	Type      string          `json:"type"`
	CurrentTs Scalar          `json:"currentTs,omitempty"`
	Feeds     map[string]Feed `json:"feeds"`
}

// Feed is the per-instrument payload of a record. Plain ltpc updates carry
// the triple at the top level, full updates nest it per segment.
type Feed struct {
	LTPC     *LTPC     `json:"ltpc,omitempty"`
	FullFeed *FullFeed `json:"fullFeed,omitempty"`
}

// FullFeed is the full-mode payload.
type FullFeed struct {
	MarketFF *SegmentFeed `json:"marketFF,omitempty"`
	IndexFF  *SegmentFeed `json:"indexFF,omitempty"`
}

// SegmentFeed wraps the ltpc triple of a full-mode payload.
type SegmentFeed struct {
	LTPC *LTPC `json:"ltpc,omitempty"`
}

// LTPC holds last traded price, time, quantity and close price.
type LTPC struct {
	LTP Scalar `json:"ltp"`
	LTT Scalar `json:"ltt"`
	LTQ Scalar `json:"ltq,omitempty"`
	CP  Scalar `json:"cp,omitempty"`
}

// Trade is the (price, time, quantity) tuple extracted for one instrument.
type Trade struct {
	InstrumentID string
	Price        decimal.Decimal
	TimestampMs  int64
	Quantity     int64
}

// Scalar keeps a JSON number or string verbatim. Feeds are inconsistent about
// quoting numeric fields.
type Scalar string

// UnmarshalJSON accepts a JSON string, number or null.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		if len(b) < 2 || b[len(b)-1] != '"' {
			return fmt.Errorf("unterminated string %s", b)
		}
		*s = Scalar(bytes.TrimSpace(b[1 : len(b)-1]))
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*s = Scalar(b)
	default:
		return fmt.Errorf("expected number or string, got %s", b)
	}
	return nil
}

// MarshalJSON writes the scalar as a JSON string.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(s) + `"`), nil
}

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

// maxExponent bounds the decimal exponent of a scalar; rescaling costs 10^|exp|.
const maxExponent = 18

// Decimal parses the scalar as a decimal with an exponent in
// [-maxExponent, maxExponent].
func (s Scalar) Decimal() (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	d, err := decimal.NewFromString(string(s))
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("value %s has exponent %d out of range", s, exp)
	}
	return d, nil
}

// Int64 parses the scalar as an integral value, accepting forms like "10" and "1.7e12".
func (s Scalar) Int64() (int64, error) {
	d, err := s.Decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("value %s is not an integer", s)
	}
	if d.GreaterThan(maxInt64) || d.LessThan(maxInt64.Neg()) {
		return 0, fmt.Errorf("value %s is out of range", s)
	}
	return d.IntPart(), nil
}

// Entry returns the ltpc triple for instrumentID, if the record carries one.
func (r Record) Entry(instrumentID string) (*LTPC, bool) {
	feed, ok := r.Feeds[instrumentID]
	if !ok {
		return nil, false
	}
	switch {
	case feed.LTPC != nil:
		return feed.LTPC, true
	case feed.FullFeed != nil && feed.FullFeed.MarketFF != nil && feed.FullFeed.MarketFF.LTPC != nil:
		return feed.FullFeed.MarketFF.LTPC, true
	case feed.FullFeed != nil && feed.FullFeed.IndexFF != nil && feed.FullFeed.IndexFF.LTPC != nil:
		return feed.FullFeed.IndexFF.LTPC, true
	}
	return nil, false
}

// Has reports whether the record carries a trade entry for instrumentID.
func (r Record) Has(instrumentID string) bool {
	_, ok := r.Entry(instrumentID)
	return ok
}

// Trade extracts a validated trade for instrumentID. It reports false when
// the entry is absent or any of price > 0, time >= 0, quantity >= 0 fails.
func (r Record) Trade(instrumentID string) (Trade, bool) {
	trade, err := r.ParseTrade(instrumentID)
	return trade, err == nil
}

// ParseTrade is Trade with the reason for rejection.
func (r Record) ParseTrade(instrumentID string) (Trade, error) {
	entry, ok := r.Entry(instrumentID)
	if !ok {
		return Trade{}, fmt.Errorf("no entry for instrument %s", instrumentID)
	}

	price, err := entry.LTP.Decimal()
	if err != nil {
		return Trade{}, fmt.Errorf("ltp: %w", err)
	}
	if !price.IsPositive() {
		return Trade{}, fmt.Errorf("ltp %s is not positive", price)
	}

	ts, err := entry.LTT.Int64()
	if err != nil {
		return Trade{}, fmt.Errorf("ltt: %w", err)
	}
	if ts < 0 {
		return Trade{}, fmt.Errorf("ltt %d is negative", ts)
	}

	var qty int64
	if entry.LTQ != "" {
		qty, err = entry.LTQ.Int64()
		if err != nil {
			return Trade{}, fmt.Errorf("ltq: %w", err)
		}
		if qty < 0 {
			return Trade{}, fmt.Errorf("ltq %d is negative", qty)
		}
	}

	return Trade{
		InstrumentID: instrumentID,
		Price:        price,
		TimestampMs:  ts,
		Quantity:     qty,
	}, nil
}
