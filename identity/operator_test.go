package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "violet-harbor-ninety-lanterns"

func TestNewOperator(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		op, err := NewOperator("maze_admin", strongPassword)
		require.NoError(t, err)
		assert.Equal(t, "maze_admin", op.Username)
		assert.NotEqual(t, strongPassword, op.PasswordHash)

		assert.True(t, op.Verify("maze_admin", strongPassword))
		assert.False(t, op.Verify("maze_admin", "wrong"))
		assert.False(t, op.Verify("someone", strongPassword))
	})

	t.Run("invalid usernames", func(t *testing.T) {
		_, err := NewOperator("ab", strongPassword)
		assert.ErrorIs(t, err, ErrUsernameTooShort)

		_, err = NewOperator(strings.Repeat("a", 40), strongPassword)
		assert.ErrorIs(t, err, ErrUsernameTooLong)

		_, err = NewOperator("bad name!", strongPassword)
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("weak passwords", func(t *testing.T) {
		_, err := NewOperator("maze_admin", "password")
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = NewOperator("maze_admin", "maze_admin")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}
