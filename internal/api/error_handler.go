package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
)

// errorResponse matches the handlers' message envelope: {"message": "..."}.
type errorResponse struct {
	Message string `json:"message"`
}

// domainStatus maps sentinel errors that reach the central handler to a fixed
// response. Handlers answer most of these themselves with the exact message
// the endpoint needs; this is the fallback.
var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrCharacterNotFound, http.StatusNotFound, "Character not found"},
	{domain.ErrMissingFields, http.StatusBadRequest, domain.ErrMissingFields.Error()},
}

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler for the catalog.
// Echo's own errors keep their status, known domain errors get a fixed
// status, and anything else is logged and answered with a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusFor(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	for _, d := range domainStatus {
		if errors.Is(err, d.err) {
			return d.code, d.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
