package util

import "time"

// TimeFromUnixMilli converts epoch milliseconds to a UTC time.Time.
func TimeFromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
