package tick

import (
	"context"

	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase is the interface for the tick normalizer.
type Usecase interface {
	Normalize(ctx context.Context, lines []string, instrumentID string) ([]v1.Tick, v1.NormalizeReport, error)
}
