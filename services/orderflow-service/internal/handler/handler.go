package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	feedDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed"
	pipelineDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline"
	pipelinev1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/pipeline/v1"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/codec"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/file"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/interval"
)

// InstrumentsResponse lists the instrument ids found in a feed.
type InstrumentsResponse struct {
	Instruments []string `json:"instruments"`
}

// DefaultMaxBodyBytes is the request body limit used unless WithMaxBodyBytes overrides it.
const DefaultMaxBodyBytes int64 = 256 << 20

// Handler serves the analysis endpoints.
type Handler struct {
	sessions     pipelineDomain.SessionUsecase
	source       feedDomain.Source
	defaults     pipelinev1.Config
	logger       logger.Interface
	maxBodyBytes int64
}

// NewHandler creates a new Handler. source may be nil, in which case a request
// with an empty body is analysed as an empty feed.
func NewHandler(
	sessions pipelineDomain.SessionUsecase,
	source feedDomain.Source,
	defaults pipelinev1.Config,
	logger logger.Interface,
) *Handler {
	return &Handler{
		sessions:     sessions,
		source:       source,
		defaults:     defaults,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// WithMaxBodyBytes sets the request body limit. Non-positive values keep the default.
func (h *Handler) WithMaxBodyBytes(n int64) *Handler {
	if n > 0 {
		h.maxBodyBytes = n
	}
	return h
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/analyze", h.Analyze)
	v1.POST("/instruments", h.Instruments)
	v1.GET("/intervals", h.Intervals)
	v1.DELETE("/sessions/:session", h.CancelSession)
}

// Analyze runs the pipeline over the request body, or over the configured
// source when the body is empty.
func (h *Handler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, err := h.configFromQuery(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		abortWithError(c, err)
		return
	}

	lines, err := h.readFeed(c)
	if err != nil {
		h.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "read_feed"})
		abortWithError(c, err)
		return
	}

	result, err := h.sessions.RunSession(ctx, c.Query("session"), lines, cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Instruments returns the sorted instrument ids present in the request body.
func (h *Handler) Instruments(c *gin.Context) {
	lines, err := h.readFeed(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, InstrumentsResponse{Instruments: codec.Instruments(lines)})
}

// Intervals returns the preset intervals.
func (h *Handler) Intervals(c *gin.Context) {
	c.JSON(http.StatusOK, interval.Presets())
}

// CancelSession cancels the in-flight run of a session.
func (h *Handler) CancelSession(c *gin.Context) {
	h.sessions.Cancel(c.Param("session"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) readFeed(c *gin.Context) ([]string, error) {
	ctx := c.Request.Context()

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	lines, err := file.ReadAll(ctx, body)
	if err != nil {
		return nil, bodyError(err)
	}
	if len(lines) > 0 || h.source == nil {
		return lines, nil
	}

	lines, err = h.source.ReadLines(ctx)
	if err != nil {
		return nil, errors.NewErrorDetailsWithObject(
			"failed to read feed from "+h.source.Name()+": "+err.Error(),
			string(errors.FeedSourceError),
			"source",
			h.source.Name(),
		)
	}
	return lines, nil
}

func (h *Handler) configFromQuery(c *gin.Context) (pipelinev1.Config, error) {
	cfg := h.defaults

	if v, ok := c.GetQuery("instrument"); ok {
		cfg.InstrumentID = v
	}
	if v, ok := c.GetQuery("interval"); ok {
		cfg.Interval = v
	}

	baseErr := errors.NewBaseError()
	if v, ok := c.GetQuery("q"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				"q must be an integer", string(errors.InvalidPipelineConfigError), "thresholdQ"))
		}
		cfg.ThresholdQ = n
	}
	if v, ok := c.GetQuery("big"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				"big must be an integer", string(errors.InvalidPipelineConfigError), "thresholdBigPlayer"))
		}
		cfg.ThresholdBigPlayer = n
	}
	if baseErr.HasDetails() {
		return cfg, baseErr
	}

	return cfg, nil
}

// bodyError turns a failed body read into a client error.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return errors.NewErrorDetails(
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			string(errors.RequestTooLargeError),
			"body",
		)
	case errors.HasCode(err, errors.FeedSourceError):
		return errors.NewErrorDetails(err.Error(), string(errors.GeneralBadRequestError), "body")
	}
	return err
}
