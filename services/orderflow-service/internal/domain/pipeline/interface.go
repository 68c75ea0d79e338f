package pipeline

import (
	"context"

	v1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase runs the full lines -> bars and bubbles transform.
type Usecase interface {
	Run(ctx context.Context, lines []string, cfg v1.Config) (*v1.Result, error)
}

// SessionUsecase runs the transform under the cancel-and-restart policy of a
// named session. Only the newest run of a session returns a result.
type SessionUsecase interface {
	RunSession(ctx context.Context, session string, lines []string, cfg v1.Config) (*v1.Result, error)
	Cancel(session string)
}
