package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/tphakala/notes-go/internal/api/middleware"
	"github.com/tphakala/notes-go/internal/errors"
	"github.com/tphakala/notes-go/internal/logger"
	"github.com/tphakala/notes-go/internal/notes"
)

// Client-facing messages. Internal error text never reaches the response body.
const (
	msgMalformedBody  = "Malformed JSON body"
	msgValidation     = "Validation failed"
	msgInternal       = "Internal server error"
	msgRequestTimeout = "Request cancelled"
)

// ErrorResponse is the JSON envelope of every non-2xx response.
type ErrorResponse struct {
	Error         string            `json:"error"`
	Message       string            `json:"message"`
	Code          int               `json:"code"`
	CorrelationID string            `json:"correlation_id"`
	Fields        map[string]string `json:"fields,omitempty"`
}

// NewErrorResponse creates an error envelope for the given status code.
func NewErrorResponse(code int, message, correlationID string) *ErrorResponse {
	return &ErrorResponse{
		Error:         http.StatusText(code),
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// statusCode maps an error to the HTTP status it is answered with.
func statusCode(err error) int {
	code, _, _ := classify(err)
	return code
}

// classify returns the status, client message and field details of err.
func classify(err error) (code int, message string, fields map[string]string) {
	var he *echo.HTTPError
	var ve *notes.ValidationError

	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message), nil
	case errors.Is(err, notes.ErrMalformedBody):
		return http.StatusBadRequest, msgMalformedBody, nil
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, msgValidation, ve.Fields
	case errors.Is(err, notes.ErrNotFound):
		return http.StatusNotFound, notes.NotFoundMessage, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, msgRequestTimeout, nil
	default:
		return http.StatusInternalServerError, msgInternal, nil
	}
}

// HandleError writes the error envelope for err and logs server-side failures.
func (c *Controller) HandleError(ctx echo.Context, err error) error {
	code, message, fields := classify(err)

	resp := NewErrorResponse(code, message, mw.RequestID(ctx))
	resp.Fields = fields

	if code >= http.StatusInternalServerError {
		c.logger.WithContext(ctx.Request().Context()).Error("request failed",
			logger.String("method", ctx.Request().Method),
			logger.String("path", ctx.Path()),
			logger.Int("status", code),
			logger.String("correlation_id", resp.CorrelationID),
			logger.Error(err))
	}

	if ctx.Request().Method == http.MethodHead {
		return ctx.NoContent(code)
	}
	return ctx.JSON(code, resp)
}

// httpErrorHandler replaces echo's default handler so every error, including
// router 404/405 and middleware rejections, uses the same envelope.
func (c *Controller) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	if werr := c.HandleError(ctx, err); werr != nil {
		c.logger.Warn("failed to write error response", logger.Error(werr))
	}
}

// invalidID is the validation error of a path id that is not a positive integer.
func invalidID(raw string) error {
	return errors.New(&notes.ValidationError{Fields: map[string]string{"id": "must be a positive integer"}}).
		Component("api").
		Category(errors.CategoryValidation).
		Priority(errors.PriorityLow).
		Context("id", raw).
		Build()
}
