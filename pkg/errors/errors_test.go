package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(base, CodeInternal, "update slot failed")

	require.ErrorIs(t, err, base)
	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.Equal(t, "internal: update slot failed: connection reset", err.Error())

	outer := fmt.Errorf("join: %w", err)
	assert.Equal(t, CodeInternal, CodeOf(outer))
	assert.Equal(t, CodeUnknown, CodeOf(base))
}

func TestWithMetaDoesNotMutateSentinel(t *testing.T) {
	sentinel := New(CodeConflict, "Slot is already full.")
	withMeta := sentinel.WithMeta("slot_id", "abc")

	assert.Nil(t, sentinel.Meta)
	assert.Equal(t, "abc", withMeta.Meta["slot_id"])
	assert.Equal(t, sentinel.Message, withMeta.Message)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalid:       http.StatusBadRequest,
		CodeInvalidState:  http.StatusBadRequest,
		CodeConflict:      http.StatusBadRequest,
		CodeAlreadyExists: http.StatusBadRequest,
		CodeNotFound:      http.StatusNotFound,
		CodeForbidden:     http.StatusForbidden,
		CodeUnauthorized:  http.StatusUnauthorized,
		CodeInternal:      http.StatusInternalServerError,
		CodeUnknown:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
