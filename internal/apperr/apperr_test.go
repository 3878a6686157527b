package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKind(t *testing.T) {
	err := E(Upstream, "summarize", errors.New("status 502"))
	wrapped := fmt.Errorf("process lecture: %w", err)

	assert.ErrorIs(t, wrapped, Upstream)
	assert.NotErrorIs(t, wrapped, Fetch)
	assert.Equal(t, Upstream, KindOf(wrapped))
	assert.Equal(t, "summarize: status 502", err.Error())
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := E(Decode, "extract", cause)

	assert.ErrorIs(t, err, cause)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestErrorf(t *testing.T) {
	err := Errorf(BadRequest, "", "unknown function: %s", "foo")
	assert.Equal(t, "unknown function: foo", err.Error())
	assert.ErrorIs(t, err, BadRequest)
}
