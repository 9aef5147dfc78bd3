package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/repository"
)

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", &repository.NotFoundError{Entity: "Ticket", ID: 9}, http.StatusNotFound, `{"error":"Ticket not found"}`},
		{"wrapped not found", errors.Join(errors.New("ctx"), &repository.NotFoundError{Entity: "Party"}), http.StatusNotFound, `{"error":"Party not found"}`},
		{"validation", &ValidationError{Message: "validation failed", Fields: map[string]string{"name": "required"}},
			http.StatusUnprocessableEntity, `{"error":"validation failed","fields":{"name":"required"}}`},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token"), http.StatusUnauthorized, `{"error":"missing bearer token"}`},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	h := ErrorHandler(zap.NewNop())
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			h(tc.err, c)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestBindError_KeepsNonBindingErrors(t *testing.T) {
	err := echo.ErrStatusRequestEntityTooLarge
	assert.Same(t, err, bindError(err))

	var ve *ValidationError
	assert.ErrorAs(t, bindError(echo.NewHTTPError(http.StatusBadRequest, "bad").SetInternal(errors.New("eof"))), &ve)
}

func TestBindError_NonJSONBodyIsValidationError(t *testing.T) {
	var ve *ValidationError
	if assert.ErrorAs(t, bindError(echo.ErrUnsupportedMediaType), &ve) {
		assert.Equal(t, map[string]string{"body": "expected application/json"}, ve.Fields)
	}
}
