package interval

import (
	"time"
)

// BucketStart returns floor(ms / width) * width.
// It reports false for negative keys and for a non-positive width; such ticks
// cannot be placed in a bucket.
func (i Interval) BucketStart(ms int64) (int64, bool) {
	width := i.Milliseconds()
	if width <= 0 || ms < 0 {
		return 0, false
	}
	return (ms / width) * width, true
}

// CalculateBucketTime calculates the start time of the interval bucket in UTC.
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	start, ok := i.BucketStart(timestamp.UnixMilli())
	if !ok {
		return time.Time{}
	}
	return time.UnixMilli(start).UTC()
}
