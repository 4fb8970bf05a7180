package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/pkg/bulk"
	"datahub-portal-be/pkg/pagination"
	"datahub-portal-be/pkg/selection"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
	}
	validationErr := ValidateRequest(sample{})
	require.Error(t, validationErr)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"validation", validationErr, fiber.StatusBadRequest},
		{"too large", fmt.Errorf("wrapped: %w", &bulk.SelectionTooLargeError{Mode: selection.ModeInclusion, Size: 5, Limit: 2}), fiber.StatusUnprocessableEntity},
		{"bad sort", &pagination.InvalidSortFieldError{Field: "x", Reason: "unknown"}, fiber.StatusBadRequest},
		{"bad direction", pagination.ErrInvalidSortDirection, fiber.StatusBadRequest},
		{"bad request", fmt.Errorf("%w: nope", apperr.ErrBadRequest), fiber.StatusBadRequest},
		{"nothing selected", bulk.ErrNothingSelected, fiber.StatusBadRequest},
		{"backend", fmt.Errorf("%w: %w", bulk.ErrBackendFailure, errors.New("io")), fiber.StatusBadGateway},
		{"not found", fmt.Errorf("org: %w", apperr.ErrNotFound), fiber.StatusNotFound},
		{"conflict", fmt.Errorf("dup: %w", apperr.ErrConflict), fiber.StatusConflict},
		{"forbidden", apperr.ErrForbidden, fiber.StatusForbidden},
		{"unauthorized", apperr.ErrUnauthorized, fiber.StatusUnauthorized},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := StatusFor(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusForHidesInternalErrors(t *testing.T) {
	_, msg := StatusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", msg)
}

func TestErrorHandlerMiddlewareTooLargeEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Post("/delete", func(ctx *fiber.Ctx) error {
		return fmt.Errorf("%w", &bulk.SelectionTooLargeError{Mode: selection.ModeExclusion, Size: 2500, Limit: 2000})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/delete", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got struct {
		Success bool   `json:"success"`
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Selected int `json:"selected"`
			Limit    int `json:"limit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.False(t, got.Success)
	assert.Equal(t, SelectionTooLargeMessage, got.Message)
	assert.Equal(t, 2500, got.Data.Selected)
	assert.Equal(t, 2000, got.Data.Limit)
}
