package pipeline

import (
	"context"
	"fmt"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/bubble"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/ohlc"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/tick"
)

const instrument = "NSE_FO|45450"

func feedLine(price string, ltt int64, qty int64) string {
	return fmt.Sprintf(`{"type":"live_feed","feeds":{%q:{"ltpc":{"ltp":%s,"ltt":"%d","ltq":"%d"}}}}`, instrument, price, ltt, qty)
}

func newPipeline(t *testing.T) *Usecase {
	log := logger.NewFromZap(zaptest.NewLogger(t))
	return NewUsecase(tick.NewUsecase(log), ohlc.NewUsecase(log), bubble.NewUsecase(), log)
}

func defaultConfig() v1.Config {
	return v1.Config{
		InstrumentID:       instrument,
		Interval:           "30s",
		ThresholdQ:         20,
		ThresholdBigPlayer: 50,
	}
}

func TestUsecase_Run(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		cfg      v1.Config
		assertFn func(t *testing.T, result *v1.Result, err error)
	}{
		{
			name:  "empty feed",
			lines: nil,
			cfg:   defaultConfig(),
			assertFn: func(t *testing.T, result *v1.Result, err error) {
				require.NoError(t, err)
				assert.NotNil(t, result.Bars)
				assert.Empty(t, result.Bars)
				assert.NotNil(t, result.Bubbles)
				assert.Empty(t, result.Bubbles)
				assert.Equal(t, "1", result.Stats.AverageQuantity.String())
			},
		},
		{
			name: "continuation pair makes one bubble",
			lines: []string{
				feedLine("100", 0, 10),
				feedLine("100", 0, 60),
			},
			cfg: defaultConfig(),
			assertFn: func(t *testing.T, result *v1.Result, err error) {
				require.NoError(t, err)
				require.Len(t, result.Bubbles, 1)
				assert.Equal(t, int64(70), result.Bubbles[0].TotalQuantity)
				assert.Equal(t, int64(0), result.Bubbles[0].Time.UnixMilli())

				require.Len(t, result.Bars, 1)
				assert.Equal(t, int64(10), result.Bars[0].BuyVolume)
				assert.Equal(t, int64(60), result.Bars[0].BigPlayerBuyVolume)
			},
		},
		{
			name: "malformed line interleaved",
			lines: []string{
				feedLine("100", 1000, 5),
				`{"type":"live_feed","feeds":{`,
				feedLine("105", 2000, 5),
			},
			cfg: defaultConfig(),
			assertFn: func(t *testing.T, result *v1.Result, err error) {
				require.NoError(t, err)
				require.Len(t, result.Bars, 1)
				bar := result.Bars[0]
				assert.Equal(t, "100", bar.Open.String())
				assert.Equal(t, "105", bar.High.String())
				assert.Equal(t, "100", bar.Low.String())
				assert.Equal(t, "105", bar.Close.String())
				assert.Equal(t, int64(10), bar.BuyVolume)
				assert.Empty(t, result.Bubbles)
				assert.Equal(t, v1.Diagnostics{LinesTotal: 3, Malformed: 1, TicksAccepted: 2}, result.Diagnostics)
			},
		},
		{
			name:  "invalid interval fails before any work",
			lines: []string{feedLine("100", 0, 10)},
			cfg: v1.Config{
				InstrumentID: instrument,
				Interval:     "30 parsecs",
			},
			assertFn: func(t *testing.T, result *v1.Result, err error) {
				assert.Nil(t, result)
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name:  "negative thresholds and missing instrument",
			lines: nil,
			cfg: v1.Config{
				Interval:           "1m",
				ThresholdQ:         -1,
				ThresholdBigPlayer: -1,
			},
			assertFn: func(t *testing.T, result *v1.Result, err error) {
				assert.Nil(t, result)
				var base *errors.BaseError
				require.True(t, errors.As(err, &base))
				assert.Len(t, base.GetDetails(), 3)
				assert.True(t, base.IsAllCodeEqual(string(errors.InvalidPipelineConfigError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := newPipeline(t).Run(context.Background(), tc.lines, tc.cfg)
			tc.assertFn(t, result, err)
		})
	}
}

func TestUsecase_Run_Idempotent(t *testing.T) {
	lines := []string{
		feedLine("100", 1700000000000, 10),
		feedLine("100.5", 1700000000000, 55),
		feedLine("99", 1700000012000, 70),
		"garbage",
		feedLine("99", 1700000031000, 5),
		feedLine("101", 1700000031000, 30),
	}

	p := newPipeline(t)
	first, err := p.Run(context.Background(), lines, defaultConfig())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), lines, defaultConfig())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	firstBars, err := json.Marshal(first.Bars)
	require.NoError(t, err)
	secondBars, err := json.Marshal(second.Bars)
	require.NoError(t, err)
	assert.Equal(t, firstBars, secondBars)

	firstBubbles, err := json.Marshal(first.Bubbles)
	require.NoError(t, err)
	secondBubbles, err := json.Marshal(second.Bubbles)
	require.NoError(t, err)
	assert.Equal(t, firstBubbles, secondBubbles)

	var total int64
	for _, bar := range first.Bars {
		total += bar.TotalVolume()
	}
	assert.Equal(t, first.Stats.TotalQuantity, total)
}

func TestUsecase_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newPipeline(t).Run(ctx, []string{feedLine("100", 0, 1)}, defaultConfig())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}
