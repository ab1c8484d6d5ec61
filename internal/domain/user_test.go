package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"admin", "user"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "Admin", "root", "superuser"} {
		_, err := ParseRole(invalid)
		assert.ErrorIs(t, err, ErrInvalidRole, "input %q", invalid)
	}
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", RoleUser, "secret-pass")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleUser, user.Role)
	})

	t.Run("empty username", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("", RoleUser, "secret-pass")
		assert.ErrorIs(t, err, ErrEmptyUsername)
	})

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice", RoleUser, "")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("password longer than bcrypt can hash", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice", RoleUser, strings.Repeat("x", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice", Role("root"), "secret-pass")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUserValidateWithHashedPassword(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             uuid.New(),
		Username:       "alice",
		Role:           RoleAdmin,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
