package bubble

import (
	"github.com/shopspring/decimal"

	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/bubble/v1"
	tickv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase is the interface for the impact detector.
type Usecase interface {
	Detect(ticks []tickv1.Tick, thresholdQ, thresholdBigPlayer int64, averageQuantity decimal.Decimal) []v1.Bubble
}
