package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusForKind maps an error kind to its HTTP status.
func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindBadRequest:
		return http.StatusBadRequest
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Internal errors are logged and their message is not
// exposed to the caller.
func (s *Server) fail(ctx echo.Context, err error) error {
	kind := errs.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if kind == errs.KindInternal {
		s.logger.Error("Request failed",
			zap.String("method", ctx.Request().Method),
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}

	return ctx.JSON(status, servers.Error{
		Code:    status,
		Kind:    kind.String(),
		Message: message,
	})
}

func (s *Server) badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Kind:    errs.KindBadRequest.String(),
		Message: message,
	})
}

// ErrorHandler renders errors that escape the handlers, such as routing misses and
// parameter binding failures, in the same Error shape.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error("Unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}

		kind := errs.KindInternal
		switch {
		case status == http.StatusNotFound:
			kind = errs.KindNotFound
		case status == http.StatusConflict:
			kind = errs.KindConflict
		case status < http.StatusInternalServerError:
			kind = errs.KindBadRequest
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, servers.Error{Code: status, Kind: kind.String(), Message: message})
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
