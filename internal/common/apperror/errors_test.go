package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), fiber.StatusBadRequest},
		{"authentication", Authentication("nope"), fiber.StatusUnauthorized},
		{"account inactive", AccountInactive(), fiber.StatusUnauthorized},
		{"authorization", Authorization("denied"), fiber.StatusForbidden},
		{"not found", NotFound("lead"), fiber.StatusNotFound},
		{"conflict", Conflict("duplicate"), fiber.StatusConflict},
		{"stale rights", StaleRights([]string{"abc"}), fiber.StatusConflict},
		{"internal", Internal(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"fiber error passes through", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{"wrapped app error", fmt.Errorf("context: %w", NotFound("role")), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(errors.New("connection string leaked"))
	if err.Message != "Internal server error" {
		t.Errorf("internal errors must use the generic message, got %q", err.Message)
	}
	if !errors.Is(err, err.Err) {
		t.Error("cause should stay reachable through Unwrap for logging")
	}
}

func TestAccountInactiveMessage(t *testing.T) {
	err := AccountInactive()
	if err.Message != InactiveAccountMessage {
		t.Errorf("got %q, want %q", err.Message, InactiveAccountMessage)
	}
}

func TestAsErrorWrapsUnknown(t *testing.T) {
	appErr := AsError(errors.New("boom"))
	if appErr.Kind != KindInternal {
		t.Errorf("unknown errors should become internal, got kind %v", appErr.Kind)
	}

	original := Conflict("dup")
	if AsError(original) != original {
		t.Error("existing app errors should pass through unchanged")
	}
}
