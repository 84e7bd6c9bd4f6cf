package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/login"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

// CurrentUserKey is the fiber.Locals key holding the logged in user.
const CurrentUserKey = "CurrentUser"

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	path := strings.ToLower(c.Path())
	if strings.HasPrefix(path, "/static") {
		return c.Next()
	}

	var (
		isLoginPage = IsLoginPage(c)
		isAdminPage = IsAdminPage(c)
	)

	// check session validity
	sessData, _, err := session.FromRequest(c)
	if err != nil || sessData.User.ID == 0 {
		if isAdminPage {
			return c.Redirect(login.Path)
		}

		return c.Next()
	}

	// Add the current user to locals for template access
	c.Locals(CurrentUserKey, sessData.User)

	if isLoginPage {
		return c.Redirect(login.RedirectPath)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), login.Path)
}

// IsAdminPage checks if the current request targets the back-office.
func IsAdminPage(c *fiber.Ctx) bool {
	path := strings.ToLower(c.Path())
	return path == handler.AdminPath || strings.HasPrefix(path, handler.AdminPath+"/")
}
