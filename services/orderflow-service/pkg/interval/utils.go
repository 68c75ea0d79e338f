package interval

import (
	"strconv"
	"time"
)

// Interval is a fixed bucket width used to group ticks into bars.
type Interval struct {
	Name     string
	Duration time.Duration
}

// Preset intervals offered as shortcuts by the CLI and the HTTP help text.
var (
	Interval1m  = Interval{Name: "1m", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute}
	Interval30m = Interval{Name: "30m", Duration: 30 * time.Minute}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour}
	Interval4h  = Interval{Name: "4h", Duration: 4 * time.Hour}
)

var presets = []Interval{
	Interval1m, Interval5m, Interval15m,
	Interval30m, Interval1h, Interval4h,
}

// Interval registry for lookup
var intervalRegistry = make(map[string]Interval)

func init() {
	for _, interval := range presets {
		intervalRegistry[interval.Name] = interval
	}
}

// Presets returns a copy of the preset intervals, shortest first.
func Presets() []Interval {
	out := make([]Interval, len(presets))
	copy(out, presets)
	return out
}

// GetPresetNames returns the names of all preset intervals.
func GetPresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, interval := range presets {
		names = append(names, interval.Name)
	}
	return names
}

// IsPreset checks if name is one of the preset interval names.
func IsPreset(name string) bool {
	_, exists := intervalRegistry[name]
	return exists
}

// Milliseconds returns the bucket width in milliseconds.
func (i Interval) Milliseconds() int64 {
	return i.Duration.Milliseconds()
}

// String returns the canonical name, e.g. "30s".
func (i Interval) String() string {
	return i.Name
}

// MarshalJSON writes the interval as its name and width in milliseconds.
func (i Interval) MarshalJSON() ([]byte, error) {
	return []byte(`{"name":` + strconv.Quote(i.Name) + `,"milliseconds":` + strconv.FormatInt(i.Milliseconds(), 10) + `}`), nil
}
