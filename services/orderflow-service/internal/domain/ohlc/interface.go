package ohlc

import (
	tickv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/ohlc/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase is the interface for the bar aggregator.
type Usecase interface {
	Aggregate(ticks []tickv1.Tick, iv interval.Interval, bigPlayerThreshold int64) ([]v1.Bar, v1.AggregateReport)
}
