package bootstrap

import (
	bubbleUc "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/bubble"
	ohlcUc "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/ohlc"
	pipelineUc "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/pipeline"
	tickUc "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/usecase/tick"

	bubbleDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/bubble"
	ohlcDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/ohlc"
	pipelineDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline"
	tickDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/tick"
)

// Usecase is the usecase for the orderflow service.
type Usecase struct {
	TickUsecase     tickDomain.Usecase
	OhlcUsecase     ohlcDomain.Usecase
	BubbleUsecase   bubbleDomain.Usecase
	PipelineUsecase pipelineDomain.Usecase
	SessionUsecase  pipelineDomain.SessionUsecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.TickUsecase = tickUc.NewUsecase(b.Logger)
	b.Usecase.OhlcUsecase = ohlcUc.NewUsecase(b.Logger)
	b.Usecase.BubbleUsecase = bubbleUc.NewUsecase()
	b.Usecase.PipelineUsecase = pipelineUc.NewUsecase(
		b.Usecase.TickUsecase,
		b.Usecase.OhlcUsecase,
		b.Usecase.BubbleUsecase,
		b.Logger,
	)
	b.Usecase.SessionUsecase = pipelineUc.NewSessions(b.Usecase.PipelineUsecase, b.Logger)
}
