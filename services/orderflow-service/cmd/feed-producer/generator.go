package main

import (
	"math/rand/v2"
	"strconv"

	"github.com/shopspring/decimal"

	feedv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/codec"
)

// GeneratorConfig describes a synthetic feed.
type GeneratorConfig struct {
	Instruments []string
	Count       int
	StartMs     int64
	StepMs      int64
	BasePrice   decimal.Decimal
	TickSize    decimal.Decimal
	MaxQuantity int64
	// Every BurstEvery-th line opens a same-millisecond burst of BurstSize
	// big trades on the first instrument. Zero disables bursts.
	BurstEvery  int
	BurstSize   int
	BigQuantity int64
	// MalformedShare is the probability in [0, 1] that a line is replaced by garbage.
	MalformedShare float64
	Seed           uint64
}

// DefaultGeneratorConfig returns a feed of one futures contract with a burst every 50 lines.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Instruments:    []string{"NSE_FO|45450"},
		Count:          1000,
		StartMs:        1700000000000,
		StepMs:         250,
		BasePrice:      decimal.NewFromFloat(3945.5),
		TickSize:       decimal.NewFromFloat(0.05),
		MaxQuantity:    20,
		BurstEvery:     50,
		BurstSize:      3,
		BigQuantity:    50,
		MalformedShare: 0.01,
		Seed:           1,
	}
}

type walk struct {
	price decimal.Decimal
}

// Generate returns Count feed lines (plus burst lines) for cfg. The same
// config always yields the same lines.
func Generate(cfg GeneratorConfig) ([]string, error) {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	walks := make(map[string]*walk, len(cfg.Instruments))
	for _, id := range cfg.Instruments {
		walks[id] = &walk{price: cfg.BasePrice}
	}

	maxQty := cfg.MaxQuantity
	if maxQty <= 0 {
		maxQty = 1
	}

	lines := make([]string, 0, cfg.Count)
	ts := cfg.StartMs

	for i := 0; i < cfg.Count && len(cfg.Instruments) > 0; i++ {
		if cfg.MalformedShare > 0 && r.Float64() < cfg.MalformedShare {
			lines = append(lines, malformedLine(r))
			continue
		}

		id := cfg.Instruments[i%len(cfg.Instruments)]
		w := walks[id]
		w.price = step(r, w.price, cfg.TickSize)

		line, err := tradeLine(id, w.price, ts, 1+r.Int64N(maxQty))
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)

		if cfg.BurstEvery > 0 && cfg.BigQuantity > 0 && (i+1)%cfg.BurstEvery == 0 {
			lead := cfg.Instruments[0]
			for j := 0; j < cfg.BurstSize; j++ {
				walks[lead].price = step(r, walks[lead].price, cfg.TickSize)
				line, err := tradeLine(lead, walks[lead].price, ts, cfg.BigQuantity+r.Int64N(cfg.BigQuantity))
				if err != nil {
					return nil, err
				}
				lines = append(lines, line)
			}
		}

		ts += cfg.StepMs
	}

	return lines, nil
}

func step(r *rand.Rand, price, tick decimal.Decimal) decimal.Decimal {
	next := price.Add(tick.Mul(decimal.NewFromInt(int64(r.IntN(3) - 1))))
	if next.LessThanOrEqual(decimal.Zero) {
		return tick
	}
	return next
}

func tradeLine(instrumentID string, price decimal.Decimal, ts, qty int64) (string, error) {
	return codec.Encode(feedv1.Record{
		Type:      "live_feed",
		CurrentTs: feedv1.Scalar(strconv.FormatInt(ts, 10)),
		Feeds: map[string]feedv1.Feed{
			instrumentID: {LTPC: &feedv1.LTPC{
				LTP: feedv1.Scalar(price.String()),
				LTT: feedv1.Scalar(strconv.FormatInt(ts, 10)),
				LTQ: feedv1.Scalar(strconv.FormatInt(qty, 10)),
			}},
		},
	})
}

var garbage = []string{
	`{"type":"live_feed","feeds":`,
	`heartbeat`,
	`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"abc","ltt":"1"}}}}`,
}

func malformedLine(r *rand.Rand) string {
	return garbage[r.IntN(len(garbage))]
}
