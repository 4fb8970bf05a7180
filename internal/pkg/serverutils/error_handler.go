package serverutils

import (
	"errors"

	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/pkg/bulk"
	"datahub-portal-be/pkg/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SelectionTooLargeMessage is shown to users when a bulk action is refused
// for size.
const SelectionTooLargeMessage = "Too many records selected. Please narrow your filter or reduce your selection."

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		if tooLarge := (*bulk.SelectionTooLargeError)(nil); errors.As(err, &tooLarge) {
			return ctx.Status(code).JSON(ErrorResponseWithData(code, message, fiber.Map{
				"selected": tooLarge.Size,
				"limit":    tooLarge.Limit,
			}))
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps an error onto an HTTP status and a client-facing message.
func StatusFor(err error) (int, string) {
	var (
		fiberErr   *fiber.Error
		tooLarge   *bulk.SelectionTooLargeError
		sortErr    *pagination.InvalidSortFieldError
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, joinMessages(validationMessages(validation))
	case errors.As(err, &tooLarge):
		return fiber.StatusUnprocessableEntity, SelectionTooLargeMessage
	case errors.As(err, &sortErr):
		return fiber.StatusBadRequest, sortErr.Error()
	case errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, pagination.ErrInvalidOffset),
		errors.Is(err, pagination.ErrInvalidSortDirection),
		errors.Is(err, apperr.ErrBadRequest):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, bulk.ErrNothingSelected):
		return fiber.StatusBadRequest, "No records are selected"
	case errors.Is(err, bulk.ErrBackendFailure):
		return fiber.StatusBadGateway, "The operation could not be completed. Your selection was kept, please retry."
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}
