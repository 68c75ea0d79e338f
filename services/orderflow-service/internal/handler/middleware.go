package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/util"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/metrics"
)

// RequestHeader carries the request id in and out of the service.
const RequestHeader = "X-Request-ID"

// Metrics records HTTP request counts and durations.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// RequestID places the caller's request id, or a fresh one, on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(RequestHeader); id != "" {
			ctx = util.WithRequestID(ctx, id)
		}
		ctx, id := util.EnsureRequestID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per served request.
func AccessLog(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.InfoContext(c.Request.Context(), "http request",
			logger.Field{Key: "method", Value: c.Request.Method},
			logger.Field{Key: "path", Value: c.Request.URL.Path},
			logger.Field{Key: "status", Value: c.Writer.Status()},
			logger.Field{Key: "elapsed", Value: time.Since(start)},
		)
	}
}
