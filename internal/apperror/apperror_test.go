package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("quiz not found")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("not yours")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already ended")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading session: %w", NotFound("no active session"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("query failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "no active session", MessageOf(NotFound("no active session")))
	assert.Equal(t, "internal server error", MessageOf(Internal("pool exhausted", nil)))
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: deadlock")))
}

func TestFieldsOf(t *testing.T) {
	err := ValidationFields("invalid payload", map[string]string{"name": "required"})
	assert.Equal(t, map[string]string{"name": "required"}, FieldsOf(err))
	assert.Nil(t, FieldsOf(errors.New("x")))
}
