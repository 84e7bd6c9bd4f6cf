package auth

import (
	"slices"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// Permission constants used to guard back-office routes.
const (
	// PermFormationManage allows creating, editing and deleting formations.
	PermFormationManage = "formation.manage"
	// PermPlaylistManage allows creating, editing and deleting playlists.
	PermPlaylistManage = "playlist.manage"
	// PermCategorieManage allows creating, renaming and deleting categories.
	PermCategorieManage = "categorie.manage"
)

var rolePermissions = map[string][]string{ //nolint:gochecknoglobals
	models.RoleAdmin: {
		PermFormationManage,
		PermPlaylistManage,
		PermCategorieManage,
	},
}

// RolePermissions returns the sorted, distinct permissions granted by roles.
func RolePermissions(roles []string) []string {
	var out []string

	for _, role := range roles {
		for _, perm := range rolePermissions[role] {
			if !slices.Contains(out, perm) {
				out = append(out, perm)
			}
		}
	}

	slices.Sort(out)

	return out
}
