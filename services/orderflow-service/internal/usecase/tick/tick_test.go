package tick

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	logger_mock "github.com/muhammadchandra19/orderflow/pkg/logger/mock"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
)

const instrument = "NSE_FO|45450"

func line(id string, price string, ltt int64, qty int64) string {
	return fmt.Sprintf(`{"type":"live_feed","feeds":{%q:{"ltpc":{"ltp":%s,"ltt":"%d","ltq":"%d"}}}}`, id, price, ltt, qty)
}

func sides(ticks []v1.Tick) []v1.Side {
	out := make([]v1.Side, 0, len(ticks))
	for _, tick := range ticks {
		out = append(out, tick.Aggressor)
	}
	return out
}

func TestUsecase_Normalize(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		assertFn func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error)
	}{
		{
			name:  "empty feed",
			lines: nil,
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				assert.Empty(t, ticks)
				assert.Equal(t, v1.NormalizeReport{}, report)
			},
		},
		{
			name: "aggressor rule",
			lines: []string{
				line(instrument, "100", 1000, 1),
				line(instrument, "101", 1001, 1),
				line(instrument, "101", 1002, 1),
				line(instrument, "99.5", 1003, 1),
				line(instrument, "99.5", 1004, 1),
				line(instrument, "100", 1005, 1),
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				assert.Equal(t, []v1.Side{
					v1.SideBuy,  // bootstrap
					v1.SideBuy,  // up
					v1.SideBuy,  // unchanged
					v1.SideSell, // down
					v1.SideBuy,  // unchanged after a down move
					v1.SideBuy,  // up
				}, sides(ticks))
				assert.Equal(t, 6, report.Accepted)
			},
		},
		{
			name: "same price continuation at one timestamp",
			lines: []string{
				line(instrument, "100", 0, 10),
				line(instrument, "100", 0, 60),
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				require.Len(t, ticks, 2)
				assert.Equal(t, []v1.Side{v1.SideBuy, v1.SideBuy}, sides(ticks))
				assert.Equal(t, int64(0), ticks[0].UnixMilli())
			},
		},
		{
			name: "malformed and foreign lines are skipped",
			lines: []string{
				line(instrument, "100", 1000, 5),
				`{"feeds":`,
				line("NSE_FO|1", "50", 1001, 5),
				line(instrument, "0", 1002, 5),
				line(instrument, "99", 1003, 7),
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				require.Len(t, ticks, 2)
				assert.Equal(t, int64(7), ticks[1].Quantity)
				assert.Equal(t, v1.SideSell, ticks[1].Aggressor)
				assert.Equal(t, v1.NormalizeReport{Lines: 5, Accepted: 2, Malformed: 2, Filtered: 1}, report)
				assert.Equal(t, 3, report.Skipped())
			},
		},
		{
			name: "extreme exponents are malformed",
			lines: []string{
				`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":100,"ltt":"1e900000000","ltq":"1"}}}}`,
				`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":100,"ltt":"1000","ltq":"1e-900000000"}}}}`,
				`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"1e900000000","ltt":"1001","ltq":"1"}}}}`,
				`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"1e-900000000","ltt":"1002","ltq":"1"}}}}`,
				`{"type":"live_feed","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"1.005e2","ltt":"1.7e12","ltq":"2"}}}}`,
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				require.Len(t, ticks, 1)
				assert.Equal(t, int64(1700000000000), ticks[0].UnixMilli())
				assert.Equal(t, "100.5", ticks[0].Price.String())
				assert.Equal(t, v1.NormalizeReport{Lines: 5, Accepted: 1, Malformed: 4}, report)
			},
		},
		{
			name: "foreign instrument does not move last price",
			lines: []string{
				line(instrument, "100", 1000, 1),
				line("NSE_FO|1", "5", 1001, 1),
				line(instrument, "100", 1002, 1),
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				assert.Equal(t, []v1.Side{v1.SideBuy, v1.SideBuy}, sides(ticks))
			},
		},
		{
			name: "feed order is kept even when time goes backwards",
			lines: []string{
				line(instrument, "100", 2000, 1),
				line(instrument, "100", 1000, 1),
			},
			assertFn: func(t *testing.T, ticks []v1.Tick, report v1.NormalizeReport, err error) {
				require.NoError(t, err)
				require.Len(t, ticks, 2)
				assert.Equal(t, int64(2000), ticks[0].UnixMilli())
				assert.Equal(t, int64(1000), ticks[1].UnixMilli())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			uc := NewUsecase(logger.NewFromZap(zaptest.NewLogger(t)))
			type result struct {
				ticks  []v1.Tick
				report v1.NormalizeReport
				err    error
			}
			done := make(chan result, 1)
			go func() {
				ticks, report, err := uc.Normalize(ctx, tc.lines, instrument)
				done <- result{ticks, report, err}
			}()

			select {
			case res := <-done:
				tc.assertFn(t, res.ticks, res.report, res.err)
			case <-ctx.Done():
				t.Fatal("Normalize did not return")
			}
		})
	}
}

func TestUsecase_Normalize_StateDoesNotLeakBetweenCalls(t *testing.T) {
	uc := NewUsecase(logger.NewFromZap(zaptest.NewLogger(t)))

	_, _, err := uc.Normalize(context.Background(), []string{line(instrument, "200", 1, 1)}, instrument)
	require.NoError(t, err)

	ticks, _, err := uc.Normalize(context.Background(), []string{line(instrument, "100", 2, 1)}, instrument)
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, v1.SideBuy, ticks[0].Aggressor)
}

func TestUsecase_Normalize_LogsSkippedLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := logger_mock.NewMockInterface(ctrl)
	mockLogger.EXPECT().
		DebugContext(gomock.Any(), "skipping feed line", gomock.Any(), gomock.Any(), gomock.Any()).
		Times(2)

	uc := NewUsecase(mockLogger)
	_, report, err := uc.Normalize(context.Background(), []string{"garbage", line(instrument, "-1", 1, 1)}, instrument)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Malformed)
}

func TestUsecase_Normalize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewUsecase(logger.NewFromZap(zaptest.NewLogger(t)))
	ticks, _, err := uc.Normalize(ctx, []string{line(instrument, "100", 1, 1)}, instrument)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ticks)
}
