package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Role determines what a user is allowed to do with tasks. Roles are
// assigned at registration and never change afterwards.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Common user validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account. The plaintext Password field is
// only populated transiently during registration and is never persisted
// or serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Role           Role      `json:"role"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
}

// NewUser creates a User with a fresh ID from a registration request.
// The caller is responsible for hashing the password before storage.
func NewUser(username string, role Role, password string) (*User, error) {
	user := &User{
		ID:       uuid.New(),
		Username: username,
		Role:     role,
		Password: password,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that the User carries the data required to persist it.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}

	if u.Password != "" {
		// bcrypt silently truncates beyond 72 bytes.
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
