package service

import (
	"testing"

	"github.com/beka-birhanu/vinom-bot/identity"
	"github.com/beka-birhanu/vinom-bot/infrastruture/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthSignIn(t *testing.T) {
	op, err := identity.NewOperator("maze_admin", "violet-harbor-ninety-lanterns")
	require.NoError(t, err)
	tokenizer := token.NewJwtService("test-secret", "vinom-bot")

	_, err = NewAuthService(nil, tokenizer)
	assert.ErrorIs(t, err, ErrMissingDependency)

	auth, err := NewAuthService(op, tokenizer)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := auth.SignIn("maze_admin", "violet-harbor-ninety-lanterns")
		require.NoError(t, err)

		claims, err := tokenizer.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, "maze_admin", claims["username"])
		assert.Equal(t, "operator", claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.SignIn("maze_admin", "nope")
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}
