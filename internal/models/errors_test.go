package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Status(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewNotFoundError("Post", 1), http.StatusNotFound},
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewFieldValidationError(map[string]string{"text": "required"}), http.StatusBadRequest},
		{NewUnauthorizedError("login"), http.StatusUnauthorized},
		{NewForbiddenError("nope"), http.StatusForbidden},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("loading: %w", NewNotFoundError("Group", "cats"))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeForbidden))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/fields", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest,
			NewFieldValidationError(map[string]string{"text": "This field is required."}))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError,
			NewInternalError(errors.New("dsn password=secret")))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fields", nil))
	require.NoError(t, err)
	var body ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, "This field is required.", body.Fields["text"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/internal", nil))
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(raw), "secret")
}
