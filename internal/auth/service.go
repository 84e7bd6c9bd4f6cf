package auth

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if a user has a specific permission.
// Roles are read from the database on every call, a role removed from a
// user takes effect on their next request.
func (s *Service) HasPermission(ctx context.Context, userID uint64, permission string) (bool, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	return slices.Contains(perms, permission), nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, perm := range permissions {
		if slices.Contains(perms, perm) {
			return true, nil
		}
	}

	return false, nil
}

// GetUserPermissions retrieves all permissions for a user.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	var user models.User

	err := s.db.WithContext(ctx).Select("id", "roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to load user roles")
	}

	return RolePermissions(user.Roles), nil
}
