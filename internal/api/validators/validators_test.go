package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Skill    string `json:"skillLevel" validate:"omitempty,oneof=beginner advanced"`
}

func TestMessage(t *testing.T) {
	err := New().Struct(signup{Email: "nope", Password: "short", Skill: "pro"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 8 characters")
	assert.Contains(t, msg, "skillLevel must be one of [beginner advanced]")

	assert.Equal(t, map[string]any{"email": "email", "password": "min", "skillLevel": "oneof"}, Fields(err))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Invalid request body.", Message(errors.New("boom")))
	assert.Nil(t, Fields(errors.New("boom")))
	assert.NoError(t, New().Struct(signup{Email: "a@b.co", Password: "longenough"}))
}
