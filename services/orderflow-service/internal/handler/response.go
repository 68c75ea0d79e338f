package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
)

// ErrorItem is one entry of an error response body.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

func toErrorResponse(err error) ErrorResponse {
	var base *errors.BaseError
	if errors.As(err, &base) {
		items := make([]ErrorItem, 0, len(base.GetDetails()))
		for _, d := range base.GetDetails() {
			items = append(items, ErrorItem{Code: d.Code, Message: d.Message, Field: d.Field})
		}
		return ErrorResponse{Errors: items}
	}

	var details *errors.ErrorDetails
	if errors.As(err, &details) {
		return ErrorResponse{Errors: []ErrorItem{{Code: details.Code, Message: details.Message, Field: details.Field}}}
	}

	return ErrorResponse{Errors: []ErrorItem{{
		Code:    string(errors.GeneralInternalServerError),
		Message: err.Error(),
	}}}
}

func statusFor(err error) int {
	switch {
	case errors.HasCode(err, errors.RunSupersededError):
		return http.StatusConflict
	case errors.HasCode(err, errors.RequestTooLargeError):
		return http.StatusRequestEntityTooLarge
	case errors.HasCode(err, errors.InvalidPipelineConfigError),
		errors.HasCode(err, errors.InvalidIntervalSpecError),
		errors.HasCode(err, errors.GeneralBadRequestError):
		return http.StatusBadRequest
	case errors.HasCode(err, errors.FeedSourceError):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), toErrorResponse(err))
}
