// Package auth provides authentication and authorization for the back-office.
//
// LocalProvider checks email and password against the users table, passwords
// being stored as Argon2id hashes.
//
// # Authorization
//
// Users carry a set of role names. Each role grants a fixed set of
// permissions declared in this package, ROLE_ADMIN granting the management
// of formations, playlists and categories.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/admin/formations",
//	    auth.RequirePermission(authService, auth.PermFormationManage),
//	    handler,
//	)
package auth
