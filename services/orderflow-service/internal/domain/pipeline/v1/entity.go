package v1

import (
	"strings"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	bubblev1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/bubble/v1"
	ohlcv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/ohlc/v1"
	statsv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/stats/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"
)

// ErrRunSuperseded is returned for a run whose result was discarded because a
// newer run was started on the same runner.
var ErrRunSuperseded = errors.NewErrorDetails(
	"pipeline run superseded by a newer run",
	string(errors.RunSupersededError),
	"",
)

// Config is the validated parameter set of one pipeline run.
type Config struct {
	InstrumentID       string `json:"instrumentId"`
	Interval           string `json:"interval"`
	ThresholdQ         int64  `json:"thresholdQ"`
	ThresholdBigPlayer int64  `json:"thresholdBigPlayer"`
}

// Validate checks every field and returns all violations at once.
func (c Config) Validate() error {
	baseErr := errors.NewBaseError()

	if strings.TrimSpace(c.InstrumentID) == "" {
		baseErr.AddErrorDetails(errors.NewErrorDetails(
			"instrument id is required", string(errors.InvalidPipelineConfigError), "instrumentId"))
	}

	if _, err := interval.Parse(c.Interval); err != nil {
		var details *errors.ErrorDetails
		if errors.As(err, &details) {
			baseErr.AddErrorDetails(details)
		} else {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				err.Error(), string(errors.InvalidIntervalSpecError), "interval"))
		}
	}

	if c.ThresholdQ < 0 {
		baseErr.AddErrorDetails(errors.NewErrorDetails(
			"thresholdQ must not be negative", string(errors.InvalidPipelineConfigError), "thresholdQ"))
	}

	if c.ThresholdBigPlayer < 0 {
		baseErr.AddErrorDetails(errors.NewErrorDetails(
			"thresholdBigPlayer must not be negative", string(errors.InvalidPipelineConfigError), "thresholdBigPlayer"))
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}

// Diagnostics surfaces the non-fatal drops of a run.
type Diagnostics struct {
	LinesTotal    int `json:"linesTotal"`
	Malformed     int `json:"malformed"`
	Filtered      int `json:"filtered"`
	TicksAccepted int `json:"ticksAccepted"`
	RejectedTicks int `json:"rejectedTicks"`
}

// Result is everything one run produces. Nothing in it is shared with other runs.
type Result struct {
	RunID       string              `json:"runId"`
	Instrument  string              `json:"instrument"`
	Interval    interval.Interval   `json:"interval"`
	Stats       statsv1.GlobalStats `json:"stats"`
	Bars        []ohlcv1.Bar        `json:"bars"`
	Bubbles     []bubblev1.Bubble   `json:"bubbles"`
	Diagnostics Diagnostics         `json:"diagnostics"`
}
