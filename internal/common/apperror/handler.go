package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[Kind]int{
	KindValidation:      fiber.StatusBadRequest,
	KindAuthentication:  fiber.StatusUnauthorized,
	KindAccountInactive: fiber.StatusUnauthorized,
	KindAuthorization:   fiber.StatusForbidden,
	KindNotFound:        fiber.StatusNotFound,
	KindConflict:        fiber.StatusConflict,
	KindStaleRights:     fiber.StatusConflict,
	KindInternal:        fiber.StatusInternalServerError,
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		if code, ok := statusByKind[appErr.Kind]; ok {
			return code
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is installed as the Fiber app error handler. Internal errors
// never leak their cause to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr := AsError(err)
	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
	}
	if appErr.Kind == KindStaleRights {
		body["missing_modules"] = appErr.Missing
	}
	return c.Status(StatusCode(err)).JSON(body)
}
