package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// writeError maps the service error taxonomy onto HTTP. Backend failures are
// logged and answered with fallback only, never with the underlying error.
func writeError(c echo.Context, log *zap.SugaredLogger, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", ve.Message))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
	default:
		log.Errorw(fallback,
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", fallback))
	}
}

// decodeJSON reads the request body into v. With strict set, fields that v
// does not declare are rejected.
func decodeJSON(c echo.Context, v interface{}, strict bool) error {
	dec := json.NewDecoder(c.Request().Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			return errors.New(strings.TrimPrefix(err.Error(), "json: "))
		}
		return errors.New("invalid json")
	}
	return nil
}
