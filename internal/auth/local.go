package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks an email and password against the users table.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// UpsertUser creates the user or replaces its password and roles.
func (p *LocalProvider) UpsertUser(ctx context.Context, email, password string, roles []string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	if password == "" {
		return nil, ErrPasswordEmpty
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var user models.User

	err = p.db.WithContext(ctx).
		Where(models.User{Email: email}).
		Assign(models.User{Password: hash, Roles: roles}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store user %s", email)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (p *LocalProvider) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to query user")
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to query user")
	}

	return &user, nil
}

// CountUsers returns the number of accounts.
func (p *LocalProvider) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := p.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}

	return n, nil
}
