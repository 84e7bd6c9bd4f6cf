package auth

import "errors"

var (
	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailEmpty is returned when creating a user without email.
	ErrEmailEmpty = errors.New("email cannot be empty")

	// ErrPasswordEmpty is returned when creating a user without password.
	ErrPasswordEmpty = errors.New("password cannot be empty")
)
