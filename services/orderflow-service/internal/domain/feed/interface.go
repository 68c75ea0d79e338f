package feed

import "context"

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Source acquires a finite batch of raw feed lines. Acquisition completes
// before the pipeline starts.
type Source interface {
	Name() string
	ReadLines(ctx context.Context) ([]string, error)
}
