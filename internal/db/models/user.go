package models

import (
	"slices"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// RoleAdmin grants access to the back-office.
const RoleAdmin = "ROLE_ADMIN"

// User is a back-office account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the login name.
	Email string `gorm:"size:180;uniqueIndex;not null"`
	// Password is the Argon2id hash, never serialized into the session.
	Password string `gorm:"size:255;not null" json:"-"`
	// Roles holds role names such as ROLE_ADMIN.
	Roles     datatypes.JSONSlice[string] `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (User) TableName() string { return "users" }

// HasRole reports whether role is granted to the user.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
