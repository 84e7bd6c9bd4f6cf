// Package auth provides authentication middleware for the web application.
//
// The middleware reads the session cookie on every request and puts the
// logged in user into fiber.Locals under CurrentUserKey, so layouts can show
// the back-office links. Anonymous requests to /admin are redirected to the
// login page, and a logged in user opening the login page is sent to the
// back-office. Public pages never require a session.
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
//
// Permission checks stay with the routes, see auth.RequirePermission.
package auth
