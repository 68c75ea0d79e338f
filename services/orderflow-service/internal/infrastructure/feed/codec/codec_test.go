package codec

import (
	"testing"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	feedv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instrument = "NSE_FO|45450"

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		assertFn func(t *testing.T, record feedv1.Record, err error)
	}{
		{
			name: "ltpc with quoted time and quantity",
			line: `{"type":"live_feed","currentTs":"1700000000123","feeds":{"NSE_FO|45450":{"ltpc":{"ltp":100.5,"ltt":"1700000000000","ltq":"10","cp":99.8}}}}`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				require.NoError(t, err)
				trade, ok := record.Trade(instrument)
				require.True(t, ok)
				assert.True(t, decimal.RequireFromString("100.5").Equal(trade.Price))
				assert.Equal(t, int64(1700000000000), trade.TimestampMs)
				assert.Equal(t, int64(10), trade.Quantity)
			},
		},
		{
			name: "numeric time and quantity",
			line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"42","ltt":1700000000001,"ltq":7}}}}`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				require.NoError(t, err)
				trade, ok := record.Trade(instrument)
				require.True(t, ok)
				assert.Equal(t, int64(1700000000001), trade.TimestampMs)
				assert.Equal(t, int64(7), trade.Quantity)
			},
		},
		{
			name: "full feed market segment",
			line: `{"type":"live_feed","feeds":{"NSE_FO|45450":{"fullFeed":{"marketFF":{"ltpc":{"ltp":101,"ltt":"1700000000002","ltq":"3"}}}}}}`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				require.NoError(t, err)
				trade, ok := record.Trade(instrument)
				require.True(t, ok)
				assert.Equal(t, int64(3), trade.Quantity)
			},
		},
		{
			name: "full feed index segment without quantity",
			line: `{"feeds":{"NSE_INDEX|Nifty 50":{"fullFeed":{"indexFF":{"ltpc":{"ltp":21000.15,"ltt":"1700000000003"}}}}}}`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				require.NoError(t, err)
				trade, ok := record.Trade("NSE_INDEX|Nifty 50")
				require.True(t, ok)
				assert.Zero(t, trade.Quantity)
			},
		},
		{
			name: "empty line",
			line: "   ",
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				assert.True(t, errors.HasCode(err, errors.FeedDecodeError))
			},
		},
		{
			name: "truncated json",
			line: `{"feeds":{"NSE_FO|45450":{"ltpc":`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				assert.True(t, errors.HasCode(err, errors.FeedDecodeError))
			},
		},
		{
			name: "not an object",
			line: `"hello"`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				assert.True(t, errors.HasCode(err, errors.FeedDecodeError))
			},
		},
		{
			name: "price given as object",
			line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":{"v":1},"ltt":"1"}}}}`,
			assertFn: func(t *testing.T, record feedv1.Record, err error) {
				assert.True(t, errors.HasCode(err, errors.FeedDecodeError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := Decode(tc.line)
			tc.assertFn(t, record, err)
		})
	}
}

func TestRecord_Trade(t *testing.T) {
	testCases := []struct {
		name   string
		line   string
		wantOK bool
		hasID  bool
	}{
		{name: "valid", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":1,"ltt":"5","ltq":"1"}}}}`, wantOK: true, hasID: true},
		{name: "other instrument", line: `{"feeds":{"NSE_FO|1":{"ltpc":{"ltp":1,"ltt":"5","ltq":"1"}}}}`, wantOK: false, hasID: false},
		{name: "zero price", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":0,"ltt":"5","ltq":"1"}}}}`, wantOK: false, hasID: true},
		{name: "negative time", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":1,"ltt":"-5","ltq":"1"}}}}`, wantOK: false, hasID: true},
		{name: "negative quantity", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":1,"ltt":"5","ltq":"-1"}}}}`, wantOK: false, hasID: true},
		{name: "fractional quantity", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":1,"ltt":"5","ltq":"1.5"}}}}`, wantOK: false, hasID: true},
		{name: "missing time", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":1,"ltq":"1"}}}}`, wantOK: false, hasID: true},
		{name: "text price", line: `{"feeds":{"NSE_FO|45450":{"ltpc":{"ltp":"abc","ltt":"5","ltq":"1"}}}}`, wantOK: false, hasID: true},
		{name: "entry without ltpc", line: `{"feeds":{"NSE_FO|45450":{}}}`, wantOK: false, hasID: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := Decode(tc.line)
			require.NoError(t, err)

			_, ok := record.Trade(instrument)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.hasID, record.Has(instrument))
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	record := feedv1.Record{
		Type: "live_feed",
		Feeds: map[string]feedv1.Feed{
			instrument: {LTPC: &feedv1.LTPC{LTP: "100.25", LTT: "1700000000000", LTQ: "15"}},
		},
	}

	line, err := Encode(record)
	require.NoError(t, err)
	assert.NotContains(t, line, "\n")

	decoded, err := Decode(line)
	require.NoError(t, err)
	trade, ok := decoded.Trade(instrument)
	require.True(t, ok)
	assert.Equal(t, int64(15), trade.Quantity)
	assert.Equal(t, "100.25", trade.Price.String())
}

func TestInstruments(t *testing.T) {
	lines := []string{
		`{"feeds":{"NSE_FO|2":{"ltpc":{"ltp":1,"ltt":"1","ltq":"1"}}}}`,
		`not json`,
		`{"feeds":{"NSE_FO|1":{"ltpc":{"ltp":1,"ltt":"1","ltq":"1"}},"NSE_FO|2":{"ltpc":{"ltp":2,"ltt":"2","ltq":"1"}}}}`,
		`{"feeds":{"NSE_FO|3":{}}}`,
		``,
	}

	assert.Equal(t, []string{"NSE_FO|1", "NSE_FO|2"}, Instruments(lines))
	assert.Empty(t, Instruments(nil))
}
