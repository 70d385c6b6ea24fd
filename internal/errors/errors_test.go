package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationHelpers(t *testing.T) {
	err := NewValidationError("weight must be a number greater than 0")
	wrapped := fmt.Errorf("add entry: %w", err)

	assert.True(t, IsValidation(wrapped))
	assert.True(t, stderrors.Is(wrapped, ErrInvalidInput))
	assert.Equal(t, "weight must be a number greater than 0", UserMessage(wrapped))

	dbErr := NewDatabaseError(stderrors.New("disk full"))
	assert.False(t, IsValidation(dbErr))
	assert.True(t, stderrors.Is(dbErr, ErrDatabaseError))
	assert.Equal(t, "unexpected error", UserMessage(stderrors.New("boom")))
}

func TestHandlerLogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewValidationError("bad").WithContext("field", "ratio"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "field=ratio")

	buf.Reset()
	err := h.LogAndReturn(context.Background(), NewExternalAPIError(stderrors.New("503"), "gemini"))
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "api=gemini")
}

func TestUnauthorizedIsPermissionWarning(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	err := NewUnauthorizedError(7)
	assert.True(t, stderrors.Is(err, ErrUnauthorized))
	assert.False(t, stderrors.Is(err, ErrInvalidInput))
	assert.False(t, IsValidation(err))

	h.Handle(context.Background(), err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="Permission error"`)
	assert.Contains(t, buf.String(), "error_code=UNAUTHORIZED")
	assert.Contains(t, buf.String(), "user_id=7")
}
