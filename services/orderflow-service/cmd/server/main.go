package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/app/server"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.App.LoggerOptions()...)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	httpServer, err := server.NewHTTPServer(ctx, cfg, log)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "create_http_server"})
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func(s *server.HTTPServer) {
		if err := s.Start(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve"})
			quit <- syscall.SIGTERM
		}
	}(httpServer)

	<-quit

	log.Info("Shutting down orderflow http server...")
	httpServer.Stop()

	log.Info("orderflow http server stopped")
}
