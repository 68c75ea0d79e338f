package interval

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		spec     string
		assertFn func(t *testing.T, iv Interval, err error)
	}{
		{
			name: "compact seconds",
			spec: "30s",
			assertFn: func(t *testing.T, iv Interval, err error) {
				require.NoError(t, err)
				assert.Equal(t, "30s", iv.Name)
				assert.Equal(t, int64(30000), iv.Milliseconds())
			},
		},
		{
			name: "spaced long unit",
			spec: "30 seconds",
			assertFn: func(t *testing.T, iv Interval, err error) {
				require.NoError(t, err)
				assert.Equal(t, 30*time.Second, iv.Duration)
			},
		},
		{
			name: "one minute",
			spec: "1 minute",
			assertFn: func(t *testing.T, iv Interval, err error) {
				require.NoError(t, err)
				assert.Equal(t, "1m", iv.Name)
				assert.Equal(t, int64(60000), iv.Milliseconds())
			},
		},
		{
			name: "min abbreviation",
			spec: "5min",
			assertFn: func(t *testing.T, iv Interval, err error) {
				require.NoError(t, err)
				assert.Equal(t, 5*time.Minute, iv.Duration)
			},
		},
		{
			name: "hours upper case",
			spec: " 2 HOURS ",
			assertFn: func(t *testing.T, iv Interval, err error) {
				require.NoError(t, err)
				assert.Equal(t, "2h", iv.Name)
				assert.Equal(t, int64(7200000), iv.Milliseconds())
			},
		},
		{
			name: "empty",
			spec: "",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name: "zero count",
			spec: "0s",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name: "negative count",
			spec: "-5m",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name: "missing unit",
			spec: "30",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name: "unknown unit",
			spec: "3 fortnights",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
				assert.Contains(t, err.Error(), "fortnights")
			},
		},
		{
			name: "fractional count",
			spec: "1.5m",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
		{
			name: "overflow",
			spec: "9223372036854775807h",
			assertFn: func(t *testing.T, iv Interval, err error) {
				assert.True(t, errors.IsInvalidIntervalSpec(err))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := Parse(tc.spec)
			tc.assertFn(t, iv, err)
		})
	}
}

func TestResolve(t *testing.T) {
	iv, err := Resolve(15, "Minutes")
	require.NoError(t, err)
	assert.Equal(t, Interval15m, iv)

	_, err = Resolve(0, "s")
	assert.True(t, errors.IsInvalidIntervalSpec(err))

	_, err = Resolve(10, "days")
	assert.True(t, errors.IsInvalidIntervalSpec(err))
}

func TestPresetsRoundTrip(t *testing.T) {
	for _, preset := range Presets() {
		iv, err := Parse(preset.Name)
		require.NoError(t, err)
		assert.Equal(t, preset, iv)
		assert.True(t, IsPreset(iv.Name))
	}
	assert.Equal(t, []string{"1m", "5m", "15m", "30m", "1h", "4h"}, GetPresetNames())
}

func TestInterval_BucketStart(t *testing.T) {
	iv := MustParse("30s")

	testCases := []struct {
		name      string
		ms        int64
		wantStart int64
		wantOK    bool
	}{
		{name: "epoch", ms: 0, wantStart: 0, wantOK: true},
		{name: "inside first bucket", ms: 29999, wantStart: 0, wantOK: true},
		{name: "boundary", ms: 30000, wantStart: 30000, wantOK: true},
		{name: "real timestamp", ms: 1700000012345, wantStart: 1700000010000, wantOK: true},
		{name: "negative", ms: -1, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, ok := iv.BucketStart(tc.ms)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantStart, start)
				assert.Zero(t, start%iv.Milliseconds())
				assert.LessOrEqual(t, start, tc.ms)
				assert.Less(t, tc.ms, start+iv.Milliseconds())
			}
		})
	}

	_, ok := Interval{}.BucketStart(10)
	assert.False(t, ok)
}

func TestInterval_CalculateBucketTime(t *testing.T) {
	iv := MustParse("1m")
	ts := time.Date(2024, 3, 1, 9, 15, 42, 0, time.FixedZone("IST", 5*3600+1800))

	got := iv.CalculateBucketTime(ts)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 3, 45, 0, 0, time.UTC)))
}
