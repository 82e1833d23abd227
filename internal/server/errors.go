package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
)

func errorBody(code, message string) map[string]string {
	return map[string]string{"code": code, "message": message}
}

// writeError maps the service error taxonomy onto HTTP responses. Content
// exhaustion gets its own machine-readable code so clients can show "no more
// questions at this level" instead of a generic failure.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorBody("invalid_input", err.Error()))
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody("not_found", err.Error()))
	case errors.Is(err, errs.ErrExhaustedContent):
		return c.JSON(http.StatusConflict, errorBody("exhausted_content", err.Error()))
	case errors.Is(err, errs.ErrConflict):
		return c.JSON(http.StatusConflict, errorBody("conflict", err.Error()))
	case errors.Is(err, errs.ErrInvalidContent):
		return c.JSON(http.StatusBadGateway, errorBody("invalid_content", err.Error()))
	case errors.Is(err, errs.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorBody("store_unavailable", err.Error()))
	default:
		slog.Error("unhandled error", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("internal", "internal server error"))
	}
}
