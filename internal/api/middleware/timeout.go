package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/widget"
	"github.com/gin-gonic/gin"
)

// timeoutKey marks requests whose deadline belongs to RequestTimeout.
const timeoutKey = "request_timeout"

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Error string           `json:"error"`
	View  widget.ErrorView `json:"view"`
}

// NewErrorResponse builds a response that only carries the client-facing message.
func NewErrorResponse(view widget.ErrorView) ErrorResponse {
	return ErrorResponse{Error: view.Message, View: view}
}

// RequestTimeout sets a per-request deadline and answers for it once it has passed.
// Handlers that see DeadlineExceeded leave the response unwritten, and the middleware
// replies 504 with the timeout error view. A response written before the deadline is kept.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Set(timeoutKey, d)
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		log := logger.WithComponent("api").WithField("request_id", GetRequestID(c))
		if c.Writer.Written() {
			log.Debugf("%s %s: deadline of %s passed after the response was written", c.Request.Method, c.Request.URL.Path, d)
			return
		}
		log.Warnf("%s %s: timed out after %s", c.Request.Method, c.Request.URL.Path, d)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, NewErrorResponse(widget.ErrorViewFor(context.DeadlineExceeded)))
	}
}

// DeadlineExceeded reports whether the deadline set by RequestTimeout has passed for c.
func DeadlineExceeded(c *gin.Context) bool {
	if _, ok := c.Get(timeoutKey); !ok {
		return false
	}
	return errors.Is(c.Request.Context().Err(), context.DeadlineExceeded)
}
