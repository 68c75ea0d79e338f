package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammadchandra19/orderflow/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/bootstrap"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/handler"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"

	feedDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed"
	pipelinev1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
)

const shutdownTimeout = 30 * time.Second

// HTTPServer is the orderflow HTTP server.
type HTTPServer struct {
	Server *http.Server
	logger logger.Interface
	config *config.Config

	bootstrap bootstrap.Bootstrap
	feed      *bootstrap.Feed
}

// NewHTTPServer creates a new HTTP server.
func NewHTTPServer(ctx context.Context, cfg *config.Config, log logger.Interface) (*HTTPServer, error) {
	s := &HTTPServer{
		logger: log,
		config: cfg,
	}

	b := &bootstrap.Bootstrap{}
	s.bootstrap = b.Init(bootstrap.BoostrapConfig{Logger: log})

	if err := s.initFeed(ctx); err != nil {
		return nil, err
	}

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(
		s.bootstrap.Usecase.SessionUsecase,
		s.source(),
		pipelineDefaults(cfg.Pipeline),
		log,
	).WithMaxBodyBytes(cfg.App.MaxBodyBytes)

	s.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler.NewRouter(h, s.healthCheck(), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start serves until the server is stopped.
func (s *HTTPServer) Start() error {
	s.logger.Info("orderflow http server listening",
		logger.Field{Key: "addr", Value: s.Server.Addr},
		logger.Field{Key: "environment", Value: s.config.App.Environment},
	)

	if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down and releases the feed source.
func (s *HTTPServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Server.Shutdown(ctx); err != nil {
		s.logger.Error(err, logger.Field{Key: "action", Value: "shutdown"})
	}
	if s.feed != nil {
		s.feed.Close()
	}
}

func (s *HTTPServer) initFeed(ctx context.Context) error {
	// Without a file path there is nothing to fall back to; callers post the feed.
	if s.config.Feed.Source == config.SourceFile && s.config.Feed.FilePath == "" {
		return nil
	}

	feed, err := bootstrap.NewFeed(ctx, s.config, s.logger)
	if err != nil {
		return err
	}
	s.feed = feed
	return nil
}

func (s *HTTPServer) source() feedDomain.Source {
	if s.feed == nil {
		return nil
	}
	return s.feed.Source
}

func (s *HTTPServer) healthCheck() healthcheck.HealthCheck {
	if s.feed == nil {
		return healthcheck.New()
	}
	return healthcheck.New(healthcheck.Check{Name: "feed", Probe: s.feed.Ping})
}

func pipelineDefaults(p config.PipelineConfig) pipelinev1.Config {
	return pipelinev1.Config{
		InstrumentID:       p.Instrument,
		Interval:           p.Interval,
		ThresholdQ:         p.ThresholdQ,
		ThresholdBigPlayer: p.ThresholdBigPlayer,
	}
}
