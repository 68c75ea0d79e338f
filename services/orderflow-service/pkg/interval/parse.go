package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
)

type unit struct {
	short  string
	factor time.Duration
}

var (
	unitSecond = unit{short: "s", factor: time.Second}
	unitMinute = unit{short: "m", factor: time.Minute}
	unitHour   = unit{short: "h", factor: time.Hour}
)

var unitTokens = map[string]unit{
	"s":       unitSecond,
	"sec":     unitSecond,
	"secs":    unitSecond,
	"second":  unitSecond,
	"seconds": unitSecond,
	"m":       unitMinute,
	"min":     unitMinute,
	"mins":    unitMinute,
	"minute":  unitMinute,
	"minutes": unitMinute,
	"h":       unitHour,
	"hr":      unitHour,
	"hrs":     unitHour,
	"hour":    unitHour,
	"hours":   unitHour,
}

// Parse resolves a human interval specification such as "30s", "30 seconds",
// "5min" or "1 hour". The count must be a positive base-10 integer and the
// unit token is matched case-insensitively.
func Parse(spec string) (Interval, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Interval{}, invalidSpec(spec, "interval is empty")
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if split == 0 {
		return Interval{}, invalidSpec(spec, "interval must start with a positive count")
	}
	if split < 0 {
		return Interval{}, invalidSpec(spec, "interval unit is missing")
	}

	count, err := strconv.ParseInt(trimmed[:split], 10, 64)
	if err != nil {
		return Interval{}, invalidSpec(spec, "interval count is out of range")
	}

	return resolve(spec, count, strings.TrimSpace(trimmed[split:]))
}

// Resolve builds an interval from an already separated count and unit token.
func Resolve(count int, unitToken string) (Interval, error) {
	return resolve(fmt.Sprintf("%d %s", count, unitToken), int64(count), strings.TrimSpace(unitToken))
}

// MustParse is like Parse but panics on error. Intended for fixed values in tests and defaults.
func MustParse(spec string) Interval {
	iv, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return iv
}

func resolve(spec string, count int64, unitToken string) (Interval, error) {
	if count <= 0 {
		return Interval{}, invalidSpec(spec, "interval count must be positive")
	}

	u, ok := unitTokens[strings.ToLower(unitToken)]
	if !ok {
		return Interval{}, invalidSpec(spec, fmt.Sprintf("unknown interval unit %q", unitToken))
	}

	if count > math.MaxInt64/int64(u.factor) {
		return Interval{}, invalidSpec(spec, "interval is too large")
	}

	return Interval{
		Name:     strconv.FormatInt(count, 10) + u.short,
		Duration: time.Duration(count) * u.factor,
	}, nil
}

func invalidSpec(spec, reason string) error {
	return errors.NewErrorDetailsWithObject(
		fmt.Sprintf("invalid interval %q: %s", spec, reason),
		string(errors.InvalidIntervalSpecError),
		"interval",
		spec,
	)
}
