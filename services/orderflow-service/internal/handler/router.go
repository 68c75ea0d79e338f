package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadchandra19/orderflow/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
)

// NewRouter builds the gin engine with middleware, the health and metrics
// endpoints and the analysis routes of h.
func NewRouter(h *Handler, health healthcheck.HealthCheck, log logger.Interface) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Metrics(), AccessLog(log))

	r.GET("/health", gin.WrapH(health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r)

	return r
}
