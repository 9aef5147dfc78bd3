package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/repository"
)

// ValidationError reports a request body, path id or query parameter that
// does not have the expected shape. It is rendered as 422.
type ValidationError struct {
	Message string
	Fields  map[string]string // json field name -> failed rule
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// bindError turns echo's binding failures into validation errors: 400 for
// bodies that do not decode, 415 for bodies not sent as JSON.
func bindError(err error) error {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return err
	}
	switch he.Code {
	case http.StatusBadRequest:
	case http.StatusUnsupportedMediaType:
		return &ValidationError{
			Message: "invalid request body",
			Fields:  map[string]string{"body": "expected " + echo.MIMEApplicationJSON},
		}
	default:
		return err
	}
	ve := &ValidationError{Message: "invalid request body"}
	var ute *json.UnmarshalTypeError
	if errors.As(he.Internal, &ute) && ute.Field != "" {
		ve.Fields = map[string]string{ute.Field: "expected " + ute.Type.String()}
	} else if he.Internal != nil {
		ve.Message = "invalid request body: " + he.Internal.Error()
	}
	return ve
}

// ErrorHandler is the single place errors become responses: not-found is
// 404, validation 422, echo errors keep their code and anything else is a
// logged 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := echo.Map{"error": "internal server error"}

		var nf *repository.NotFoundError
		var ve *ValidationError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &nf):
			status, body = http.StatusNotFound, echo.Map{"error": nf.Error()}
		case errors.As(err, &ve):
			status, body = http.StatusUnprocessableEntity, echo.Map{"error": ve.Message}
			if len(ve.Fields) > 0 {
				body["fields"] = ve.Fields
			}
		case errors.As(err, &he):
			status, body = he.Code, echo.Map{"error": fmt.Sprint(he.Message)}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}
