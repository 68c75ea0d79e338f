package bootstrap

import (
	"github.com/muhammadchandra19/orderflow/pkg/logger"
)

// Bootstrap wires the orderflow service usecases.
type Bootstrap struct {
	Usecase Usecase
	Logger  logger.Interface
}

// BoostrapConfig is the config for the bootstrap.
type BoostrapConfig struct {
	Logger logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BoostrapConfig) Bootstrap {
	b.Logger = config.Logger

	b.registerUsecase()

	return *b
}
